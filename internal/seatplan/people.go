package seatplan

// AddPerson appends a person attending on DefaultDays.
func AddPerson(doc Document, id, name string) (Document, Person) {
	person := Person{ID: id, Name: name, Days: append([]string{}, DefaultDays...)}
	out := doc.Clone()
	out.People = append(out.People, person)
	return out, person
}

// RenamePerson changes the display name. It reports false for an unknown person.
func RenamePerson(doc Document, id, name string) (Document, Person, bool) {
	idx := personIndex(doc.People, id)
	if idx < 0 {
		return doc, Person{}, false
	}
	out := doc.Clone()
	out.People[idx].Name = name
	return out, out.People[idx], true
}

// SetPersonDay adds or removes dayKey from the person's attendance set.
// Adding a day already present and removing an absent day are no-ops.
func SetPersonDay(doc Document, id, dayKey string, present bool) (Document, Person, bool) {
	idx := personIndex(doc.People, id)
	if idx < 0 {
		return doc, Person{}, false
	}
	out := doc.Clone()
	person := out.People[idx]
	has := attends(person, dayKey)
	switch {
	case present && !has:
		person.Days = append(person.Days, dayKey)
	case !present && has:
		kept := make([]string, 0, len(person.Days))
		for _, d := range person.Days {
			if d != dayKey {
				kept = append(kept, d)
			}
		}
		person.Days = kept
	}
	out.People[idx] = person
	return out, person, true
}

// DeletePerson removes the person from the roster. Assignment entries naming
// them are not purged; readers skip them.
func DeletePerson(doc Document, id string) (Document, bool) {
	idx := personIndex(doc.People, id)
	if idx < 0 {
		return doc, false
	}
	out := doc.Clone()
	out.People = append(out.People[:idx], out.People[idx+1:]...)
	return out, true
}

func personIndex(people []Person, id string) int {
	for i, p := range people {
		if p.ID == id {
			return i
		}
	}
	return -1
}

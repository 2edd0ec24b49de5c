package seatplan

import "time"

// SetAssignment binds seatID to personID on dateKey, overwriting any
// previous occupant. An empty personID removes the seat's entry instead.
// No other date is touched and no cleanup runs. The primitive does not check
// whether personID already sits elsewhere that day; see Candidates.
func SetAssignment(assignments Assignments, dateKey, seatID, personID string) Assignments {
	out := assignments.Clone()
	if out == nil {
		out = make(Assignments, 1)
	}
	day := out[dateKey].Clone()
	if personID == "" {
		delete(day, seatID)
	} else {
		day[seatID] = personID
	}
	out[dateKey] = day
	return out
}

// ClearDay removes the whole mapping for dateKey.
func ClearDay(assignments Assignments, dateKey string) Assignments {
	out := assignments.Clone()
	if out == nil {
		return Assignments{}
	}
	delete(out, dateKey)
	return out
}

// Candidates lists the people a selection surface should offer for seatID on
// date: everyone present who is not seated elsewhere that day, plus the
// seat's current occupant. Order follows people.
func Candidates(people []Person, assignments Assignments, date time.Time, seatID string) []Person {
	day := assignments[DateKey(date)]
	current := day[seatID]
	dayKey := DayKey(date)

	var out []Person
	for _, p := range people {
		if !attends(p, dayKey) {
			continue
		}
		if p.ID != current && day.HasPerson(p.ID) {
			continue
		}
		out = append(out, p)
	}
	return out
}

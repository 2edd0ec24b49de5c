package seatplan

// PruneAssignments is the opt-in integrity pass. It drops entries whose seat
// or person no longer exists and, where a person holds several seats on one
// day, keeps only the earliest seat in seat-list order. Days left empty are
// removed. It returns the cleaned table and the number of dropped entries.
//
// None of the other functions call it; stale entries are otherwise skipped
// lazily by readers.
func PruneAssignments(doc Document) (Assignments, int) {
	people := make(map[string]struct{}, len(doc.People))
	for _, p := range doc.People {
		people[p.ID] = struct{}{}
	}

	out := make(Assignments, len(doc.Assignments))
	dropped := 0
	for date, day := range doc.Assignments {
		kept := make(DayAssignments, len(day))
		seated := make(map[string]struct{}, len(day))
		for _, s := range doc.Seats {
			personID, ok := day[s.ID]
			if !ok {
				continue
			}
			if _, exists := kept[s.ID]; exists {
				continue
			}
			if _, ok := people[personID]; !ok {
				continue
			}
			if _, dup := seated[personID]; dup {
				continue
			}
			kept[s.ID] = personID
			seated[personID] = struct{}{}
		}
		dropped += len(day) - len(kept)
		if len(kept) > 0 {
			out[date] = kept
		}
	}
	return out, dropped
}

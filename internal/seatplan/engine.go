package seatplan

import "time"

// AutoAssign seats every person present on date who is not seated yet.
//
// The run is incremental. It starts from the existing mapping for the date
// and drops only entries whose person was deleted or no longer attends on
// that weekday. Every other entry is kept as is, including entries for
// deleted seats and a person holding several seats; such a person counts as
// seated. Remaining present people are placed in people order onto the first
// free seat in seat-list order. People left without a seat are returned as
// unseated; running out of seats is not an error. PruneAssignments is the
// separate, explicit cleanup for stale or duplicated entries.
//
// The returned table is a copy of existing with the date's mapping replaced.
func AutoAssign(people []Person, seats []Seat, existing Assignments, date time.Time) (Assignments, []Person) {
	dateKey := DateKey(date)
	dayKey := DayKey(date)

	byID := make(map[string]Person, len(people))
	for _, p := range people {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}

	working := existing[dateKey].Clone()

	for seatID, personID := range working {
		if p, ok := byID[personID]; !ok || !attends(p, dayKey) {
			delete(working, seatID)
		}
	}

	seated := make(map[string]struct{}, len(working))
	for _, personID := range working {
		seated[personID] = struct{}{}
	}

	var unseated []Person
	next := 0
	for _, p := range people {
		if !attends(p, dayKey) {
			continue
		}
		if _, ok := seated[p.ID]; ok {
			continue
		}
		for next < len(seats) {
			if _, taken := working[seats[next].ID]; !taken {
				break
			}
			next++
		}
		if next == len(seats) {
			unseated = append(unseated, p)
			continue
		}
		working[seats[next].ID] = p.ID
		seated[p.ID] = struct{}{}
		next++
	}

	out := existing.Clone()
	if out == nil {
		out = make(Assignments, 1)
	}
	out[dateKey] = working
	return out, unseated
}

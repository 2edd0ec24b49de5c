package seatplan

import "time"

// SheetLine is one present person on a printable day sheet.
type SheetLine struct {
	PersonID string `json:"personId"`
	Name     string `json:"name"`
	Seated   bool   `json:"seated"`
	SeatID   string `json:"seatId,omitempty"`
	RoomName string `json:"roomName,omitempty"`
}

// DaySheet lists everyone present on date in people order together with
// their seat and room, if any.
func DaySheet(doc Document, date time.Time) []SheetLine {
	day := doc.Assignments[DateKey(date)]
	present := PresentPeople(doc.People, date)
	lines := make([]SheetLine, 0, len(present))
	for _, p := range present {
		line := SheetLine{PersonID: p.ID, Name: p.Name}
		if seat, ok := day.SeatOf(p.ID, doc.Seats); ok {
			line.Seated = true
			line.SeatID = seat.ID
			line.RoomName = roomName(doc.Rooms, seat)
		}
		lines = append(lines, line)
	}
	return lines
}

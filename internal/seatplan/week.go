package seatplan

import "time"

// UnknownRoomName is shown for a seat whose room reference is missing or stale.
const UnknownRoomName = "Unbekannter Raum"

// CellStatus classifies a person's situation on one day.
type CellStatus string

const (
	// StatusNotExpected means the person does not attend on that weekday.
	StatusNotExpected CellStatus = "not_expected"
	// StatusAssigned means the person holds a seat that still exists.
	StatusAssigned CellStatus = "assigned"
	// StatusUnassigned means the person is expected but has no seat.
	StatusUnassigned CellStatus = "unassigned"
)

// WeekCell is one person-day of the week view.
type WeekCell struct {
	Date     string     `json:"date"`
	Status   CellStatus `json:"status"`
	SeatID   string     `json:"seatId,omitempty"`
	RoomName string     `json:"roomName,omitempty"`
}

// WeekRow is one person's line of the week view.
type WeekRow struct {
	PersonID string     `json:"personId"`
	Name     string     `json:"name"`
	Days     []WeekCell `json:"days"`
}

// ProjectWeek returns Monday through Friday of the week containing anchor,
// at midnight in anchor's location. A Sunday belongs to the week before it.
func ProjectWeek(anchor time.Time) []time.Time {
	day := StartOfDay(anchor)
	offset := 1 - int(day.Weekday())
	if day.Weekday() == time.Sunday {
		offset = -6
	}
	monday := day.AddDate(0, 0, offset)

	week := make([]time.Time, 5)
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}

// WeekView projects, for every current person and every date, whether the
// person is expected and in which room they sit. Entries pointing at
// deleted seats count as unassigned; seats without a resolvable room report
// UnknownRoomName.
func WeekView(people []Person, seats []Seat, rooms []Room, assignments Assignments, weekDates []time.Time) []WeekRow {
	rows := make([]WeekRow, 0, len(people))
	for _, p := range people {
		row := WeekRow{PersonID: p.ID, Name: p.Name, Days: make([]WeekCell, 0, len(weekDates))}
		for _, date := range weekDates {
			row.Days = append(row.Days, resolveCell(p, seats, rooms, assignments, date))
		}
		rows = append(rows, row)
	}
	return rows
}

func resolveCell(p Person, seats []Seat, rooms []Room, assignments Assignments, date time.Time) WeekCell {
	cell := WeekCell{Date: DateKey(date)}
	if !IsPresent(p, date) {
		cell.Status = StatusNotExpected
		return cell
	}
	seat, ok := assignments[cell.Date].SeatOf(p.ID, seats)
	if !ok {
		cell.Status = StatusUnassigned
		return cell
	}
	cell.Status = StatusAssigned
	cell.SeatID = seat.ID
	cell.RoomName = roomName(rooms, seat)
	return cell
}

func roomName(rooms []Room, seat Seat) string {
	if seat.RoomID == nil {
		return UnknownRoomName
	}
	room, ok := FindRoom(rooms, *seat.RoomID)
	if !ok {
		return UnknownRoomName
	}
	return room.Name
}

package seatplan

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Seat feature tags.
const (
	FeatureDualMonitor = "dual_monitor"
	FeatureWindow      = "window"
	FeatureStanding    = "standing"
)

// Features lists the fixed seat feature vocabulary in display order.
var Features = []string{FeatureDualMonitor, FeatureWindow, FeatureStanding}

// IsFeature reports whether tag belongs to the seat feature vocabulary.
func IsFeature(tag string) bool {
	for _, f := range Features {
		if f == tag {
			return true
		}
	}
	return false
}

// Room is a named rectangle on the floor plan grouping seats.
type Room struct {
	ID        string    `json:"id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	W         float64   `json:"w"`
	H         float64   `json:"h"`
	Name      string    `json:"name"`
	SeatCount SeatCount `json:"seatCount"`
}

// SeatCount is the intended number of seats of a room. It only drives seat
// generation; the authoritative count is the number of seats referencing the
// room. Documents written by older clients store it as a string.
type SeatCount int

// maxSeatCount bounds decoded counts; larger values are treated as invalid.
const maxSeatCount = math.MaxInt32

// UnmarshalJSON accepts numbers and numeric strings. Anything else, including
// negative or out of range values, decodes to zero.
func (c *SeatCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 0 || n > maxSeatCount {
			*c = 0
			return nil
		}
		*c = SeatCount(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f < 0 || f > maxSeatCount || math.IsNaN(f) {
		*c = 0
		return nil
	}
	*c = SeatCount(int(f))
	return nil
}

// Seat is a single assignable workspace. Occupancy is never stored on the
// seat; it is derived from the Assignments table.
type Seat struct {
	ID       string   `json:"id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	RoomID   *string  `json:"roomId"`
	Features []string `json:"features"`
}

// InRoom reports whether the seat belongs to the given room.
func (s Seat) InRoom(roomID string) bool {
	return s.RoomID != nil && *s.RoomID == roomID
}

// HasFeature reports whether the seat carries the feature tag.
func (s Seat) HasFeature(tag string) bool {
	for _, f := range s.Features {
		if f == tag {
			return true
		}
	}
	return false
}

// Person is someone with a recurring weekly attendance pattern. The
// persisted document calls them students.
type Person struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Days []string `json:"days"`
}

// DayAssignments maps seat id to person id for a single date.
type DayAssignments map[string]string

// Assignments maps an ISO date key (YYYY-MM-DD) to that day's seat bindings.
type Assignments map[string]DayAssignments

// Document is the complete persisted state.
type Document struct {
	Rooms       []Room      `json:"rooms"`
	Seats       []Seat      `json:"seats"`
	People      []Person    `json:"students"`
	Assignments Assignments `json:"assignments"`
}

// NewDocument returns the default empty document.
func NewDocument() Document {
	return Document{
		Rooms:       []Room{},
		Seats:       []Seat{},
		People:      []Person{},
		Assignments: Assignments{},
	}
}

// Normalize replaces nil collections with empty ones so the document
// serialises with [] and {} instead of null.
func (d Document) Normalize() Document {
	if d.Rooms == nil {
		d.Rooms = []Room{}
	}
	if d.Seats == nil {
		d.Seats = []Seat{}
	}
	for i := range d.Seats {
		if d.Seats[i].Features == nil {
			d.Seats[i].Features = []string{}
		}
	}
	if d.People == nil {
		d.People = []Person{}
	}
	for i := range d.People {
		if d.People[i].Days == nil {
			d.People[i].Days = []string{}
		}
	}
	if d.Assignments == nil {
		d.Assignments = Assignments{}
	}
	for date, day := range d.Assignments {
		if day == nil {
			d.Assignments[date] = DayAssignments{}
		}
	}
	return d
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{
		Rooms:       append([]Room(nil), d.Rooms...),
		Seats:       make([]Seat, len(d.Seats)),
		People:      make([]Person, len(d.People)),
		Assignments: d.Assignments.Clone(),
	}
	for i, s := range d.Seats {
		out.Seats[i] = s.clone()
	}
	for i, p := range d.People {
		out.People[i] = p.clone()
	}
	return out
}

// Clone returns a deep copy of the assignment table.
func (a Assignments) Clone() Assignments {
	if a == nil {
		return nil
	}
	out := make(Assignments, len(a))
	for date, day := range a {
		out[date] = day.Clone()
	}
	return out
}

// Clone returns a copy of the day mapping. A nil mapping clones to an empty one.
func (d DayAssignments) Clone() DayAssignments {
	out := make(DayAssignments, len(d))
	for seatID, personID := range d {
		out[seatID] = personID
	}
	return out
}

// SeatOf returns the seat the person occupies on this day, scanning seats in
// list order so the answer is deterministic even for duplicated entries.
func (d DayAssignments) SeatOf(personID string, seats []Seat) (Seat, bool) {
	for _, s := range seats {
		if pid, ok := d[s.ID]; ok && pid == personID {
			return s, true
		}
	}
	return Seat{}, false
}

// HasPerson reports whether personID is the value of any entry.
func (d DayAssignments) HasPerson(personID string) bool {
	for _, pid := range d {
		if pid == personID {
			return true
		}
	}
	return false
}

func (s Seat) clone() Seat {
	if s.RoomID != nil {
		id := *s.RoomID
		s.RoomID = &id
	}
	if s.Features != nil {
		s.Features = append([]string{}, s.Features...)
	}
	return s
}

func (p Person) clone() Person {
	if p.Days != nil {
		p.Days = append([]string{}, p.Days...)
	}
	return p
}

// FindRoom returns the first room with the id.
func FindRoom(rooms []Room, id string) (Room, bool) {
	for _, r := range rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// FindSeat returns the first seat with the id.
func FindSeat(seats []Seat, id string) (Seat, bool) {
	for _, s := range seats {
		if s.ID == id {
			return s, true
		}
	}
	return Seat{}, false
}

// FindPerson returns the first person with the id.
func FindPerson(people []Person, id string) (Person, bool) {
	for _, p := range people {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// RoomSeats returns the seats owned by the room in seat-list order.
func RoomSeats(seats []Seat, roomID string) []Seat {
	var out []Seat
	for _, s := range seats {
		if s.InRoom(roomID) {
			out = append(out, s)
		}
	}
	return out
}

package testfixtures

import (
	"fmt"
	"sync/atomic"

	"github.com/example/seat-planner/internal/seatplan"
)

var personCounter uint64

// ----------------------------- Person fixtures -----------------------------

// PersonOption configures a generated person.
type PersonOption func(*seatplan.Person)

// NewPerson returns a deterministic person attending on the default days
// unless overridden.
func NewPerson(opts ...PersonOption) seatplan.Person {
	idx := atomic.AddUint64(&personCounter, 1)
	person := seatplan.Person{
		ID:   fmt.Sprintf("person-%03d", idx),
		Name: fmt.Sprintf("Person %03d", idx),
		Days: append([]string{}, seatplan.DefaultDays...),
	}
	for _, opt := range opts {
		opt(&person)
	}
	return person
}

// WithPersonID overrides the generated person ID.
func WithPersonID(id string) PersonOption {
	return func(p *seatplan.Person) {
		p.ID = id
	}
}

// WithPersonName overrides the generated display name.
func WithPersonName(name string) PersonOption {
	return func(p *seatplan.Person) {
		p.Name = name
	}
}

// WithDays replaces the attendance days.
func WithDays(days ...string) PersonOption {
	return func(p *seatplan.Person) {
		p.Days = append([]string{}, days...)
	}
}

// ---------------------------- Document fixtures ----------------------------

// DocumentOption configures a generated document.
type DocumentOption func(*seatplan.Document)

// NewDocument returns an empty document with the options applied in order.
func NewDocument(opts ...DocumentOption) seatplan.Document {
	doc := seatplan.NewDocument()
	for _, opt := range opts {
		opt(&doc)
	}
	return doc
}

// WithRoom adds a room at the default position holding the given seat ids,
// laid out the way new seats are generated.
func WithRoom(id, name string, seatIDs ...string) DocumentOption {
	return func(doc *seatplan.Document) {
		next, room := seatplan.AddRoom(*doc, id, name)
		ids := append([]string{}, seatIDs...)
		next, _ = seatplan.SetRoomSeatCount(next, room.ID, len(ids), func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		})
		*doc = next
	}
}

// WithLooseSeat adds a seat that belongs to no room.
func WithLooseSeat(id string, features ...string) DocumentOption {
	return func(doc *seatplan.Document) {
		next, _ := seatplan.AddSeat(*doc, id, 0, 0, nil)
		for _, f := range features {
			next, _, _ = seatplan.ToggleSeatFeature(next, id, f)
		}
		*doc = next
	}
}

// WithPeople appends the given people.
func WithPeople(people ...seatplan.Person) DocumentOption {
	return func(doc *seatplan.Document) {
		doc.People = append(doc.People, people...)
	}
}

// WithAssignment binds seatID to personID on date.
func WithAssignment(date, seatID, personID string) DocumentOption {
	return func(doc *seatplan.Document) {
		doc.Assignments = seatplan.SetAssignment(doc.Assignments, date, seatID, personID)
	}
}

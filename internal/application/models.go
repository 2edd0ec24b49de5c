package application

import "github.com/example/seat-planner/internal/seatplan"

// AutoAssignResult is the outcome of an auto-assignment run for one date.
type AutoAssignResult struct {
	Date        string                  `json:"date"`
	Assignments seatplan.DayAssignments `json:"assignments"`
	Unseated    []seatplan.Person       `json:"unseated"`
}

// WeekPlan is the Monday to Friday projection around a date.
type WeekPlan struct {
	Dates []string           `json:"dates"`
	Rows  []seatplan.WeekRow `json:"rows"`
}

// SeatInput captures caller provided fields of a new seat.
type SeatInput struct {
	X      float64
	Y      float64
	RoomID *string
}

package seatplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func seats(ids ...string) []Seat {
	out := make([]Seat, 0, len(ids))
	room := "r1"
	for _, id := range ids {
		out = append(out, Seat{ID: id, RoomID: &room})
	}
	return out
}

func person(id string, days ...string) Person {
	return Person{ID: id, Name: "Name " + id, Days: days}
}

func TestAutoAssign(t *testing.T) {
	t.Run("seats present people in list order", func(t *testing.T) {
		people := []Person{person("p1", Monday), person("p2", Monday)}

		got, unseated := AutoAssign(people, seats("s1", "s2"), Assignments{}, monday)

		require.Equal(t, DayAssignments{"s1": "p1", "s2": "p2"}, got["2024-03-04"])
		require.Empty(t, unseated)
	})

	t.Run("reports overflow as unseated", func(t *testing.T) {
		people := []Person{person("p1", Monday), person("p2", Monday), person("p3", Monday)}

		got, unseated := AutoAssign(people, seats("s1", "s2"), nil, monday)

		require.Equal(t, DayAssignments{"s1": "p1", "s2": "p2"}, got["2024-03-04"])
		require.Len(t, unseated, 1)
		require.Equal(t, "p3", unseated[0].ID)
	})

	t.Run("reports every present person when there are no seats", func(t *testing.T) {
		people := []Person{person("p1", Monday), person("p2", Monday), person("p3", Tuesday)}

		got, unseated := AutoAssign(people, nil, nil, monday)

		require.Empty(t, got["2024-03-04"])
		require.Len(t, unseated, 2)
	})

	t.Run("overflow count equals people minus seats", func(t *testing.T) {
		var people []Person
		for _, id := range []string{"a", "b", "c", "d", "e"} {
			people = append(people, person(id, Monday, Friday))
		}

		_, unseated := AutoAssign(people, seats("s1", "s2"), nil, monday)

		require.Len(t, unseated, 3)
	})

	t.Run("ignores people absent on the weekday", func(t *testing.T) {
		people := []Person{person("p1", Tuesday), person("p2"), {ID: "p3"}, person("p4", Monday)}

		got, unseated := AutoAssign(people, seats("s1", "s2"), nil, monday)

		require.Equal(t, DayAssignments{"s1": "p4"}, got["2024-03-04"])
		require.Empty(t, unseated)
	})

	t.Run("keeps already seated people in place", func(t *testing.T) {
		people := []Person{person("p1", Monday), person("p2", Monday)}
		existing := Assignments{"2024-03-04": {"s2": "p1"}}

		got, unseated := AutoAssign(people, seats("s1", "s2"), existing, monday)

		require.Equal(t, DayAssignments{"s2": "p1", "s1": "p2"}, got["2024-03-04"])
		require.Empty(t, unseated)
	})

	t.Run("reclaims seats of deleted or absent people", func(t *testing.T) {
		people := []Person{person("p1", Tuesday), person("p2", Monday)}
		existing := Assignments{"2024-03-04": {"s1": "p1", "s2": "ghost"}}

		got, _ := AutoAssign(people, seats("s1", "s2"), existing, monday)

		require.Equal(t, DayAssignments{"s1": "p2"}, got["2024-03-04"])
	})

	t.Run("keeps entries for deleted seats and treats their person as seated", func(t *testing.T) {
		people := []Person{person("p1", Monday), person("p2", Monday)}
		existing := Assignments{"2024-03-04": {"gone": "p1"}}

		got, unseated := AutoAssign(people, seats("s1"), existing, monday)

		require.Equal(t, DayAssignments{"gone": "p1", "s1": "p2"}, got["2024-03-04"])
		require.Empty(t, unseated)
	})

	t.Run("keeps every seat of a person seated twice", func(t *testing.T) {
		people := []Person{person("p1", Monday), person("p2", Monday)}
		existing := Assignments{"2024-03-04": {"s1": "p1", "s3": "p1"}}

		got, unseated := AutoAssign(people, seats("s1", "s2", "s3"), existing, monday)

		require.Equal(t, DayAssignments{"s1": "p1", "s3": "p1", "s2": "p2"}, got["2024-03-04"])
		require.Empty(t, unseated)
	})

	t.Run("is a fixed point when run twice", func(t *testing.T) {
		people := []Person{person("p1", Monday), person("p2", Monday, Tuesday), person("p3", Monday)}
		first, firstUnseated := AutoAssign(people, seats("s1", "s2"), nil, monday)

		second, secondUnseated := AutoAssign(people, seats("s1", "s2"), first, monday)

		require.Equal(t, first, second)
		require.Equal(t, firstUnseated, secondUnseated)
	})

	t.Run("leaves other dates and the input untouched", func(t *testing.T) {
		people := []Person{person("p1", Monday)}
		existing := Assignments{"2024-03-05": {"s1": "p9"}}

		got, _ := AutoAssign(people, seats("s1"), existing, monday)

		require.Equal(t, DayAssignments{"s1": "p9"}, got["2024-03-05"])
		require.NotContains(t, existing, "2024-03-04")
	})

	t.Run("never places two people on one seat or one person twice", func(t *testing.T) {
		people := []Person{person("a", Monday), person("b", Monday), person("c", Monday), person("d", Monday)}
		existing := Assignments{"2024-03-04": {"s3": "c"}}

		got, _ := AutoAssign(people, seats("s1", "s2", "s3"), existing, monday)

		seen := map[string]bool{}
		for _, pid := range got["2024-03-04"] {
			require.False(t, seen[pid], "person %s seated twice", pid)
			seen[pid] = true
		}
		require.Len(t, got["2024-03-04"], 3)
	})
}

package seatplan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetRoomSeatCount(t *testing.T) {
	doc := NewDocument()
	doc, room := AddRoom(doc, "r1", "Büro 101")

	t.Run("grows on a three column grid", func(t *testing.T) {
		got, ok := SetRoomSeatCount(doc, room.ID, 4, sequence("s"))

		require.True(t, ok)
		require.Len(t, got.Seats, 4)
		require.Equal(t, SeatCount(4), got.Rooms[0].SeatCount)
		require.Equal(t, [2]float64{130, 140}, [2]float64{got.Seats[0].X, got.Seats[0].Y})
		require.Equal(t, [2]float64{200, 140}, [2]float64{got.Seats[1].X, got.Seats[1].Y})
		require.Equal(t, [2]float64{270, 140}, [2]float64{got.Seats[2].X, got.Seats[2].Y})
		require.Equal(t, [2]float64{130, 210}, [2]float64{got.Seats[3].X, got.Seats[3].Y})
		for _, s := range got.Seats {
			require.True(t, s.InRoom(room.ID))
		}
		require.Empty(t, doc.Seats, "input must not be mutated")
	})

	t.Run("continues the grid after existing seats", func(t *testing.T) {
		got, _ := SetRoomSeatCount(doc, room.ID, 2, sequence("a"))
		got, _ = SetRoomSeatCount(got, room.ID, 3, sequence("b"))

		require.Equal(t, "b-1", got.Seats[2].ID)
		require.Equal(t, 270.0, got.Seats[2].X)
	})

	t.Run("shrinks from the end of the room's seats", func(t *testing.T) {
		grown, _ := SetRoomSeatCount(doc, room.ID, 3, sequence("s"))
		grown, _ = AddSeat(grown, "loose", 0, 0, nil)

		got, ok := SetRoomSeatCount(grown, room.ID, 1, sequence("x"))

		require.True(t, ok)
		ids := []string{}
		for _, s := range got.Seats {
			ids = append(ids, s.ID)
		}
		require.Equal(t, []string{"s-1", "loose"}, ids)
	})

	t.Run("negative count is a no-op", func(t *testing.T) {
		got, ok := SetRoomSeatCount(doc, room.ID, -1, sequence("s"))

		require.False(t, ok)
		require.Equal(t, doc, got)
	})

	t.Run("unknown room is a no-op", func(t *testing.T) {
		_, ok := SetRoomSeatCount(doc, "nope", 2, sequence("s"))
		require.False(t, ok)
	})
}

func TestDeleteRoomCascadesSeats(t *testing.T) {
	doc := NewDocument()
	doc, r1 := AddRoom(doc, "r1", "A")
	doc, r2 := AddRoom(doc, "r2", "B")
	doc, _ = SetRoomSeatCount(doc, r1.ID, 2, sequence("a"))
	doc, _ = SetRoomSeatCount(doc, r2.ID, 1, sequence("b"))
	doc.Assignments = SetAssignment(doc.Assignments, "2024-03-04", "a-1", "p1")

	got, ok := DeleteRoom(doc, r1.ID)

	require.True(t, ok)
	require.Len(t, got.Rooms, 1)
	require.Len(t, got.Seats, 1)
	require.Equal(t, "b-1", got.Seats[0].ID)
	require.Equal(t, "p1", got.Assignments["2024-03-04"]["a-1"], "assignments stay until pruned")
}

func TestUpdateRoomClampsSize(t *testing.T) {
	doc, room := AddRoom(NewDocument(), "r1", "A")
	w, h, name := 10.0, 300.0, "Büro 102"

	got, updated, ok := UpdateRoom(doc, room.ID, RoomPatch{W: &w, H: &h, Name: &name})

	require.True(t, ok)
	require.Equal(t, 50.0, updated.W)
	require.Equal(t, 300.0, updated.H)
	require.Equal(t, "Büro 102", got.Rooms[0].Name)
}

func TestSeatMutations(t *testing.T) {
	room := "r1"
	doc, _ := AddSeat(NewDocument(), "s1", 10, 20, &room)

	doc, seat, ok := ToggleSeatFeature(doc, "s1", FeatureWindow)
	require.True(t, ok)
	require.Equal(t, []string{FeatureWindow}, seat.Features)

	doc, seat, _ = ToggleSeatFeature(doc, "s1", FeatureWindow)
	require.Empty(t, seat.Features)

	x := 99.0
	doc, seat, ok = UpdateSeat(doc, "s1", SeatPatch{X: &x, DetachRoom: true})
	require.True(t, ok)
	require.Nil(t, seat.RoomID)
	require.Equal(t, 99.0, seat.X)

	_, _, ok = ToggleSeatFeature(doc, "missing", FeatureWindow)
	require.False(t, ok)

	doc, ok = DeleteSeat(doc, "s1")
	require.True(t, ok)
	require.Empty(t, doc.Seats)
}

func TestPersonMutations(t *testing.T) {
	doc, p := AddPerson(NewDocument(), "p1", "Anna")
	require.Equal(t, []string{Monday, Wednesday, Friday}, p.Days)

	doc, p, ok := SetPersonDay(doc, "p1", Tuesday, true)
	require.True(t, ok)
	require.Equal(t, []string{Monday, Wednesday, Friday, Tuesday}, p.Days)

	doc, p, _ = SetPersonDay(doc, "p1", Tuesday, true)
	require.Len(t, p.Days, 4)

	doc, p, _ = SetPersonDay(doc, "p1", Monday, false)
	require.Equal(t, []string{Wednesday, Friday, Tuesday}, p.Days)

	doc, p, ok = RenamePerson(doc, "p1", "Anna B.")
	require.True(t, ok)
	require.Equal(t, "Anna B.", doc.People[0].Name)

	_, ok = DeletePerson(doc, "missing")
	require.False(t, ok)
}

func TestPruneAssignments(t *testing.T) {
	doc := NewDocument()
	doc.Seats = seats("s1", "s2", "s3")
	doc.People = []Person{person("p1", Monday), person("p2", Monday)}
	doc.Assignments = Assignments{
		"2024-03-04": {"s1": "p1", "s3": "p1", "s2": "ghost", "gone": "p2"},
		"2024-03-05": {"gone": "p1"},
	}

	pruned, dropped := PruneAssignments(doc)

	require.Equal(t, Assignments{"2024-03-04": {"s1": "p1"}}, pruned)
	require.Equal(t, 4, dropped)
}

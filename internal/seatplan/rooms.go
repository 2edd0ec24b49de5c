package seatplan

// Room defaults and seat grid layout.
const (
	NewRoomX      = 100
	NewRoomY      = 100
	NewRoomWidth  = 200
	NewRoomHeight = 150
	MinRoomSize   = 50

	seatGridColumns = 3
	seatGridOffsetX = 30
	seatGridOffsetY = 40
	seatGridPitch   = 70
)

// RoomPatch carries optional room field updates.
type RoomPatch struct {
	Name *string
	X    *float64
	Y    *float64
	W    *float64
	H    *float64
}

// AddRoom appends a room with default geometry and no seats.
func AddRoom(doc Document, id, name string) (Document, Room) {
	room := Room{
		ID:   id,
		X:    NewRoomX,
		Y:    NewRoomY,
		W:    NewRoomWidth,
		H:    NewRoomHeight,
		Name: name,
	}
	out := doc.Clone()
	out.Rooms = append(out.Rooms, room)
	return out, room
}

// UpdateRoom applies patch to the room. Sizes below MinRoomSize are raised
// to it. It reports false when the room does not exist.
func UpdateRoom(doc Document, id string, patch RoomPatch) (Document, Room, bool) {
	idx := roomIndex(doc.Rooms, id)
	if idx < 0 {
		return doc, Room{}, false
	}
	out := doc.Clone()
	room := out.Rooms[idx]
	if patch.Name != nil {
		room.Name = *patch.Name
	}
	if patch.X != nil {
		room.X = *patch.X
	}
	if patch.Y != nil {
		room.Y = *patch.Y
	}
	if patch.W != nil {
		room.W = max(*patch.W, MinRoomSize)
	}
	if patch.H != nil {
		room.H = max(*patch.H, MinRoomSize)
	}
	out.Rooms[idx] = room
	return out, room, true
}

// SetRoomSeatCount grows or shrinks the room's seats to count. New seats are
// laid out on a three column grid relative to the room origin and receive
// ids from newID; surplus seats are removed from the end of the room's seat
// list. A negative count leaves the document untouched. It reports false
// when nothing changed because the room is unknown or count is negative.
func SetRoomSeatCount(doc Document, roomID string, count int, newID func() string) (Document, bool) {
	idx := roomIndex(doc.Rooms, roomID)
	if idx < 0 || count < 0 {
		return doc, false
	}
	out := doc.Clone()
	room := out.Rooms[idx]
	current := RoomSeats(out.Seats, roomID)
	diff := count - len(current)

	switch {
	case diff > 0:
		for i := 0; i < diff; i++ {
			pos := len(current) + i
			id := room.ID
			out.Seats = append(out.Seats, Seat{
				ID:       newID(),
				X:        room.X + float64(seatGridOffsetX+(pos%seatGridColumns)*seatGridPitch),
				Y:        room.Y + float64(seatGridOffsetY+(pos/seatGridColumns)*seatGridPitch),
				RoomID:   &id,
				Features: []string{},
			})
		}
	case diff < 0:
		drop := make(map[string]struct{}, -diff)
		for _, s := range current[len(current)+diff:] {
			drop[s.ID] = struct{}{}
		}
		kept := out.Seats[:0]
		for _, s := range out.Seats {
			if _, ok := drop[s.ID]; !ok {
				kept = append(kept, s)
			}
		}
		out.Seats = kept
	}

	room.SeatCount = SeatCount(count)
	out.Rooms[idx] = room
	return out, true
}

// DeleteRoom removes the room and every seat referencing it. Assignment
// entries for those seats are left in place and become stale.
func DeleteRoom(doc Document, id string) (Document, bool) {
	idx := roomIndex(doc.Rooms, id)
	if idx < 0 {
		return doc, false
	}
	out := doc.Clone()
	out.Rooms = append(out.Rooms[:idx], out.Rooms[idx+1:]...)
	kept := out.Seats[:0]
	for _, s := range out.Seats {
		if !s.InRoom(id) {
			kept = append(kept, s)
		}
	}
	out.Seats = kept
	return out, true
}

func roomIndex(rooms []Room, id string) int {
	for i, r := range rooms {
		if r.ID == id {
			return i
		}
	}
	return -1
}

package seatplan

// SeatPatch carries optional seat field updates. Set DetachRoom to clear the
// room reference; RoomID is ignored in that case.
type SeatPatch struct {
	X          *float64
	Y          *float64
	RoomID     *string
	DetachRoom bool
}

// AddSeat appends a seat at the position, optionally attached to a room.
func AddSeat(doc Document, id string, x, y float64, roomID *string) (Document, Seat) {
	seat := Seat{ID: id, X: x, Y: y, Features: []string{}}
	if roomID != nil {
		rid := *roomID
		seat.RoomID = &rid
	}
	out := doc.Clone()
	out.Seats = append(out.Seats, seat)
	return out, seat
}

// UpdateSeat applies patch to the seat. It reports false for an unknown seat.
func UpdateSeat(doc Document, id string, patch SeatPatch) (Document, Seat, bool) {
	idx := seatIndex(doc.Seats, id)
	if idx < 0 {
		return doc, Seat{}, false
	}
	out := doc.Clone()
	seat := out.Seats[idx]
	if patch.X != nil {
		seat.X = *patch.X
	}
	if patch.Y != nil {
		seat.Y = *patch.Y
	}
	switch {
	case patch.DetachRoom:
		seat.RoomID = nil
	case patch.RoomID != nil:
		rid := *patch.RoomID
		seat.RoomID = &rid
	}
	out.Seats[idx] = seat
	return out, seat, true
}

// ToggleSeatFeature adds the feature when the seat lacks it and removes it
// otherwise. It reports false for an unknown seat.
func ToggleSeatFeature(doc Document, id, feature string) (Document, Seat, bool) {
	idx := seatIndex(doc.Seats, id)
	if idx < 0 {
		return doc, Seat{}, false
	}
	out := doc.Clone()
	seat := out.Seats[idx]
	if seat.HasFeature(feature) {
		kept := make([]string, 0, len(seat.Features))
		for _, f := range seat.Features {
			if f != feature {
				kept = append(kept, f)
			}
		}
		seat.Features = kept
	} else {
		seat.Features = append(seat.Features, feature)
	}
	out.Seats[idx] = seat
	return out, seat, true
}

// DeleteSeat removes the seat. Its assignment entries become stale.
func DeleteSeat(doc Document, id string) (Document, bool) {
	idx := seatIndex(doc.Seats, id)
	if idx < 0 {
		return doc, false
	}
	out := doc.Clone()
	out.Seats = append(out.Seats[:idx], out.Seats[idx+1:]...)
	return out, true
}

func seatIndex(seats []Seat, id string) int {
	for i, s := range seats {
		if s.ID == id {
			return i
		}
	}
	return -1
}

package application

import (
	"context"
	"strings"

	"github.com/example/seat-planner/internal/seatplan"
)

// AddRoom creates a room with default geometry and no seats.
func (s *PlanService) AddRoom(ctx context.Context, name string) (room seatplan.Room, err error) {
	logger := s.loggerWith(ctx, "AddRoom")
	defer func() { logOutcome(ctx, logger, err, "room added", "room_id", room.ID) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return room, fieldError("name", "name is required")
	}

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		doc, room = seatplan.AddRoom(doc, s.idGenerator(), name)
		return doc, nil
	})
	return room, err
}

// UpdateRoom applies the patch. Sizes below the minimum are raised to it.
func (s *PlanService) UpdateRoom(ctx context.Context, roomID string, patch seatplan.RoomPatch) (room seatplan.Room, err error) {
	logger := s.loggerWith(ctx, "UpdateRoom", "room_id", roomID)
	defer func() { logOutcome(ctx, logger, err, "room updated") }()

	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return room, fieldError("name", "name must not be empty")
		}
		patch.Name = &trimmed
	}

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		next, updated, ok := seatplan.UpdateRoom(doc, roomID, patch)
		if !ok {
			return doc, ErrNotFound
		}
		room = updated
		return next, nil
	})
	return room, err
}

// SetRoomSeatCount grows or shrinks the room's seats to count.
func (s *PlanService) SetRoomSeatCount(ctx context.Context, roomID string, count int) (seats []seatplan.Seat, err error) {
	logger := s.loggerWith(ctx, "SetRoomSeatCount", "room_id", roomID, "seat_count", count)
	defer func() { logOutcome(ctx, logger, err, "room seats resized") }()

	if count < 0 {
		return nil, fieldError("seatCount", "seat count must not be negative")
	}

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		next, ok := seatplan.SetRoomSeatCount(doc, roomID, count, s.idGenerator)
		if !ok {
			return doc, ErrNotFound
		}
		seats = seatplan.RoomSeats(next.Seats, roomID)
		return next, nil
	})
	if seats == nil && err == nil {
		seats = []seatplan.Seat{}
	}
	return seats, err
}

// DeleteRoom removes the room together with its seats.
func (s *PlanService) DeleteRoom(ctx context.Context, roomID string) (err error) {
	logger := s.loggerWith(ctx, "DeleteRoom", "room_id", roomID)
	defer func() { logOutcome(ctx, logger, err, "room deleted") }()

	return s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		next, ok := seatplan.DeleteRoom(doc, roomID)
		if !ok {
			return doc, ErrNotFound
		}
		return next, nil
	})
}

// AddSeat creates a seat, optionally inside an existing room.
func (s *PlanService) AddSeat(ctx context.Context, input SeatInput) (seat seatplan.Seat, err error) {
	logger := s.loggerWith(ctx, "AddSeat")
	defer func() { logOutcome(ctx, logger, err, "seat added", "seat_id", seat.ID) }()

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		if input.RoomID != nil {
			if _, ok := seatplan.FindRoom(doc.Rooms, *input.RoomID); !ok {
				return doc, fieldError("roomId", "room does not exist")
			}
		}
		doc, seat = seatplan.AddSeat(doc, s.idGenerator(), input.X, input.Y, input.RoomID)
		return doc, nil
	})
	return seat, err
}

// UpdateSeat moves the seat or changes its room.
func (s *PlanService) UpdateSeat(ctx context.Context, seatID string, patch seatplan.SeatPatch) (seat seatplan.Seat, err error) {
	logger := s.loggerWith(ctx, "UpdateSeat", "seat_id", seatID)
	defer func() { logOutcome(ctx, logger, err, "seat updated") }()

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		if patch.RoomID != nil && !patch.DetachRoom {
			if _, ok := seatplan.FindRoom(doc.Rooms, *patch.RoomID); !ok {
				return doc, fieldError("roomId", "room does not exist")
			}
		}
		next, updated, ok := seatplan.UpdateSeat(doc, seatID, patch)
		if !ok {
			return doc, ErrNotFound
		}
		seat = updated
		return next, nil
	})
	return seat, err
}

// ToggleSeatFeature adds the feature to the seat or removes it.
func (s *PlanService) ToggleSeatFeature(ctx context.Context, seatID, feature string) (seat seatplan.Seat, err error) {
	logger := s.loggerWith(ctx, "ToggleSeatFeature", "seat_id", seatID, "feature", feature)
	defer func() { logOutcome(ctx, logger, err, "seat feature toggled") }()

	if !seatplan.IsFeature(feature) {
		return seat, fieldError("feature", "unknown seat feature")
	}

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		next, updated, ok := seatplan.ToggleSeatFeature(doc, seatID, feature)
		if !ok {
			return doc, ErrNotFound
		}
		seat = updated
		return next, nil
	})
	return seat, err
}

// DeleteSeat removes the seat. Assignments naming it become stale.
func (s *PlanService) DeleteSeat(ctx context.Context, seatID string) (err error) {
	logger := s.loggerWith(ctx, "DeleteSeat", "seat_id", seatID)
	defer func() { logOutcome(ctx, logger, err, "seat deleted") }()

	return s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		next, ok := seatplan.DeleteSeat(doc, seatID)
		if !ok {
			return doc, ErrNotFound
		}
		return next, nil
	})
}

// AddPerson creates a person attending on the default days.
func (s *PlanService) AddPerson(ctx context.Context, name string) (person seatplan.Person, err error) {
	logger := s.loggerWith(ctx, "AddPerson")
	defer func() { logOutcome(ctx, logger, err, "person added", "person_id", person.ID) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return person, fieldError("name", "name is required")
	}

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		doc, person = seatplan.AddPerson(doc, s.idGenerator(), name)
		return doc, nil
	})
	return person, err
}

// RenamePerson changes a person's display name.
func (s *PlanService) RenamePerson(ctx context.Context, personID, name string) (person seatplan.Person, err error) {
	logger := s.loggerWith(ctx, "RenamePerson", "person_id", personID)
	defer func() { logOutcome(ctx, logger, err, "person renamed") }()

	name = strings.TrimSpace(name)
	if name == "" {
		return person, fieldError("name", "name is required")
	}

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		next, updated, ok := seatplan.RenamePerson(doc, personID, name)
		if !ok {
			return doc, ErrNotFound
		}
		person = updated
		return next, nil
	})
	return person, err
}

// SetPersonDay adds or removes a workday from the person's attendance.
func (s *PlanService) SetPersonDay(ctx context.Context, personID, day string, present bool) (person seatplan.Person, err error) {
	logger := s.loggerWith(ctx, "SetPersonDay", "person_id", personID, "day", day, "present", present)
	defer func() { logOutcome(ctx, logger, err, "attendance updated") }()

	if !seatplan.IsWorkday(day) {
		return person, fieldError("day", "day must be one of Mo, Di, Mi, Do, Fr")
	}

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		next, updated, ok := seatplan.SetPersonDay(doc, personID, day, present)
		if !ok {
			return doc, ErrNotFound
		}
		person = updated
		return next, nil
	})
	return person, err
}

// DeletePerson removes the person. Their assignments are kept until pruned.
func (s *PlanService) DeletePerson(ctx context.Context, personID string) (err error) {
	logger := s.loggerWith(ctx, "DeletePerson", "person_id", personID)
	defer func() { logOutcome(ctx, logger, err, "person deleted") }()

	return s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		next, ok := seatplan.DeletePerson(doc, personID)
		if !ok {
			return doc, ErrNotFound
		}
		return next, nil
	})
}

package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/example/seat-planner/internal/application"
	"github.com/example/seat-planner/internal/persistence"
	"github.com/example/seat-planner/internal/seatplan"
	"github.com/example/seat-planner/internal/testfixtures"
)

const monday = "2024-03-04"

type recorderStub struct {
	mu       sync.Mutex
	runs     []int
	storeOps map[string]int
}

func (r *recorderStub) ObserveAutoAssign(unseated int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, unseated)
}

func (r *recorderStub) ObserveStore(operation string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeOps == nil {
		r.storeOps = map[string]int{}
	}
	key := operation + ":ok"
	if err != nil {
		key = operation + ":error"
	}
	r.storeOps[key]++
}

func officeDocument() seatplan.Document {
	return testfixtures.NewDocument(
		testfixtures.WithRoom("r1", "Büro 101", "s1", "s2"),
		testfixtures.WithPeople(
			testfixtures.NewPerson(testfixtures.WithPersonID("p1"), testfixtures.WithPersonName("Anna"), testfixtures.WithDays(seatplan.Monday)),
			testfixtures.NewPerson(testfixtures.WithPersonID("p2"), testfixtures.WithPersonName("Ben"), testfixtures.WithDays(seatplan.Monday, seatplan.Tuesday)),
			testfixtures.NewPerson(testfixtures.WithPersonID("p3"), testfixtures.WithPersonName("Clara"), testfixtures.WithDays(seatplan.Monday)),
		),
	)
}

func newService(t *testing.T, doc seatplan.Document) (*application.PlanService, *testfixtures.MemoryStore) {
	t.Helper()
	store := testfixtures.NewMemoryStore(doc)
	svc := testfixtures.NewServiceFactory().NewPlanService(t, store, nil)
	return svc, store
}

func TestPlanService_Load(t *testing.T) {
	t.Run("operations fail before load", func(t *testing.T) {
		svc := application.NewPlanService(testfixtures.NewMemoryStore(officeDocument()), nil, nil)

		if _, err := svc.AutoAssign(context.Background(), monday); !errors.Is(err, application.ErrNotLoaded) {
			t.Fatalf("expected ErrNotLoaded, got %v", err)
		}
		if _, err := svc.Week(context.Background(), monday); !errors.Is(err, application.ErrNotLoaded) {
			t.Fatalf("expected ErrNotLoaded, got %v", err)
		}
	})

	t.Run("load failure keeps the service unloaded", func(t *testing.T) {
		store := testfixtures.NewMemoryStore(seatplan.NewDocument())
		store.LoadErr = fmt.Errorf("data.json: %w", persistence.ErrCorruptDocument)
		svc := application.NewPlanService(store, nil, nil)

		err := svc.Load(context.Background())
		if application.ErrorKind(err) != "corrupt_document" {
			t.Fatalf("expected corrupt_document, got %v", err)
		}
		if svc.Loaded() {
			t.Fatalf("service must not report loaded after a failed load")
		}
	})

	t.Run("snapshot is a deep copy", func(t *testing.T) {
		svc, _ := newService(t, officeDocument())

		snap, err := svc.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		snap.People[0].Name = "changed"

		again, _ := svc.Snapshot(context.Background())
		if again.People[0].Name != "Anna" {
			t.Fatalf("snapshot mutation leaked into the service")
		}
	})
}

func TestPlanService_AutoAssign(t *testing.T) {
	t.Run("seats present people and saves", func(t *testing.T) {
		svc, store := newService(t, officeDocument())
		recorder := &recorderStub{}
		svc.SetRecorder(recorder)

		result, err := svc.AutoAssign(context.Background(), monday)
		if err != nil {
			t.Fatalf("AutoAssign failed: %v", err)
		}

		if result.Date != monday || result.Assignments["s1"] != "p1" || result.Assignments["s2"] != "p2" {
			t.Fatalf("unexpected assignments: %+v", result)
		}
		if len(result.Unseated) != 1 || result.Unseated[0].ID != "p3" {
			t.Fatalf("expected p3 to be unseated, got %+v", result.Unseated)
		}
		if got := store.Stored().Assignments[monday]; len(got) != 2 {
			t.Fatalf("expected saved assignments, got %v", got)
		}
		if len(recorder.runs) != 1 || recorder.runs[0] != 1 || recorder.storeOps["save:ok"] != 1 {
			t.Fatalf("unexpected recorded metrics: %+v", recorder)
		}
	})

	t.Run("rejects malformed dates without saving", func(t *testing.T) {
		svc, store := newService(t, officeDocument())

		_, err := svc.AutoAssign(context.Background(), "04.03.2024")

		var vErr *application.ValidationError
		if !errors.As(err, &vErr) || vErr.FieldErrors["date"] == "" {
			t.Fatalf("expected date validation error, got %v", err)
		}
		if store.Saves() != 0 {
			t.Fatalf("expected no save, got %d", store.Saves())
		}
	})

	t.Run("save failure keeps the new state and is not retried", func(t *testing.T) {
		svc, store := newService(t, officeDocument())
		store.FailSaves(errors.New("disk full"))

		result, err := svc.AutoAssign(context.Background(), monday)
		if !errors.Is(err, application.ErrSaveFailed) {
			t.Fatalf("expected ErrSaveFailed, got %v", err)
		}
		if len(result.Assignments) != 2 {
			t.Fatalf("expected a valid result alongside the save error, got %+v", result)
		}

		snap, _ := svc.Snapshot(context.Background())
		if len(snap.Assignments[monday]) != 2 {
			t.Fatalf("in-memory state must keep the assignment")
		}
		if store.Saves() != 0 {
			t.Fatalf("expected no successful save, got %d", store.Saves())
		}

		store.FailSaves(nil)
		if err := svc.ClearDay(context.Background(), "2024-03-05"); err != nil {
			t.Fatalf("ClearDay failed: %v", err)
		}
		if len(store.Stored().Assignments[monday]) != 2 {
			t.Fatalf("next successful save must carry the earlier change")
		}
	})
}

func TestPlanService_ManualAssignment(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, officeDocument())

	day, err := svc.SetAssignment(ctx, monday, "s2", "p3")
	if err != nil {
		t.Fatalf("SetAssignment failed: %v", err)
	}
	if day["s2"] != "p3" {
		t.Fatalf("unexpected day mapping %v", day)
	}

	if _, err := svc.SetAssignment(ctx, monday, "missing", "p1"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown seat, got %v", err)
	}
	if _, err := svc.SetAssignment(ctx, monday, "s1", "ghost"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown person, got %v", err)
	}

	candidates, err := svc.Candidates(ctx, monday, "s1")
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if got := ids(candidates); fmt.Sprint(got) != "[p1 p2]" {
		t.Fatalf("expected p1 and p2 as candidates, got %v", got)
	}

	day, err = svc.SetAssignment(ctx, monday, "s2", "")
	if err != nil {
		t.Fatalf("clearing seat failed: %v", err)
	}
	if _, ok := day["s2"]; ok {
		t.Fatalf("expected s2 to be cleared, got %v", day)
	}
	if store.Saves() != 2 {
		t.Fatalf("expected two saves, got %d", store.Saves())
	}
}

func TestPlanService_Views(t *testing.T) {
	ctx := context.Background()
	doc := officeDocument()
	doc.Assignments = seatplan.SetAssignment(doc.Assignments, monday, "s1", "p2")
	svc, _ := newService(t, doc)

	week, err := svc.Week(ctx, "2024-03-06")
	if err != nil {
		t.Fatalf("Week failed: %v", err)
	}
	if fmt.Sprint(week.Dates) != "[2024-03-04 2024-03-05 2024-03-06 2024-03-07 2024-03-08]" {
		t.Fatalf("unexpected week dates %v", week.Dates)
	}
	ben := week.Rows[1]
	if ben.Days[0].Status != seatplan.StatusAssigned || ben.Days[0].RoomName != "Büro 101" {
		t.Fatalf("unexpected Monday cell %+v", ben.Days[0])
	}
	if ben.Days[1].Status != seatplan.StatusUnassigned || ben.Days[2].Status != seatplan.StatusNotExpected {
		t.Fatalf("unexpected cells %+v", ben.Days)
	}

	sheet, err := svc.DaySheet(ctx, monday)
	if err != nil {
		t.Fatalf("DaySheet failed: %v", err)
	}
	if len(sheet) != 3 || sheet[0].Seated || !sheet[1].Seated || sheet[1].SeatID != "s1" {
		t.Fatalf("unexpected day sheet %+v", sheet)
	}
}

func TestPlanService_Entities(t *testing.T) {
	ctx := context.Background()

	t.Run("rooms", func(t *testing.T) {
		svc, store := newService(t, seatplan.NewDocument())

		room, err := svc.AddRoom(ctx, "  Büro 102 ")
		if err != nil {
			t.Fatalf("AddRoom failed: %v", err)
		}
		if room.ID != "id-1" || room.Name != "Büro 102" || room.W != seatplan.NewRoomWidth {
			t.Fatalf("unexpected room %+v", room)
		}

		seats, err := svc.SetRoomSeatCount(ctx, room.ID, 4)
		if err != nil {
			t.Fatalf("SetRoomSeatCount failed: %v", err)
		}
		if len(seats) != 4 || seats[3].ID != "id-5" {
			t.Fatalf("unexpected seats %+v", seats)
		}

		if _, err := svc.SetRoomSeatCount(ctx, room.ID, -1); application.ErrorKind(err) != "validation" {
			t.Fatalf("expected validation error for negative count, got %v", err)
		}
		if _, err := svc.AddRoom(ctx, " "); application.ErrorKind(err) != "validation" {
			t.Fatalf("expected validation error for empty name, got %v", err)
		}

		w := 10.0
		updated, err := svc.UpdateRoom(ctx, room.ID, seatplan.RoomPatch{W: &w})
		if err != nil || updated.W != seatplan.MinRoomSize {
			t.Fatalf("expected width clamped to minimum, got %+v, %v", updated, err)
		}

		if err := svc.DeleteRoom(ctx, room.ID); err != nil {
			t.Fatalf("DeleteRoom failed: %v", err)
		}
		if stored := store.Stored(); len(stored.Rooms) != 0 || len(stored.Seats) != 0 {
			t.Fatalf("expected room and seats to be gone, got %+v", stored)
		}
		if err := svc.DeleteRoom(ctx, room.ID); !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("seats", func(t *testing.T) {
		svc, _ := newService(t, officeDocument())

		missing := "nope"
		if _, err := svc.AddSeat(ctx, application.SeatInput{RoomID: &missing}); application.ErrorKind(err) != "validation" {
			t.Fatalf("expected validation error for unknown room, got %v", err)
		}

		seat, err := svc.AddSeat(ctx, application.SeatInput{X: 5, Y: 6})
		if err != nil || seat.RoomID != nil {
			t.Fatalf("unexpected seat %+v, %v", seat, err)
		}

		seat, err = svc.ToggleSeatFeature(ctx, seat.ID, seatplan.FeatureStanding)
		if err != nil || !seat.HasFeature(seatplan.FeatureStanding) {
			t.Fatalf("expected standing feature, got %+v, %v", seat, err)
		}
		if _, err := svc.ToggleSeatFeature(ctx, seat.ID, "sofa"); application.ErrorKind(err) != "validation" {
			t.Fatalf("expected validation error for unknown feature, got %v", err)
		}

		room := "r1"
		seat, err = svc.UpdateSeat(ctx, seat.ID, seatplan.SeatPatch{RoomID: &room})
		if err != nil || !seat.InRoom("r1") {
			t.Fatalf("expected seat moved into r1, got %+v, %v", seat, err)
		}

		if err := svc.DeleteSeat(ctx, seat.ID); err != nil {
			t.Fatalf("DeleteSeat failed: %v", err)
		}
	})

	t.Run("people", func(t *testing.T) {
		svc, _ := newService(t, seatplan.NewDocument())

		person, err := svc.AddPerson(ctx, "Dana")
		if err != nil || fmt.Sprint(person.Days) != "[Mo Mi Fr]" {
			t.Fatalf("unexpected person %+v, %v", person, err)
		}

		person, err = svc.SetPersonDay(ctx, person.ID, seatplan.Tuesday, true)
		if err != nil || len(person.Days) != 4 {
			t.Fatalf("expected Tuesday added, got %+v, %v", person, err)
		}
		if _, err := svc.SetPersonDay(ctx, person.ID, seatplan.Saturday, true); application.ErrorKind(err) != "validation" {
			t.Fatalf("expected validation error for weekend day, got %v", err)
		}

		person, err = svc.RenamePerson(ctx, person.ID, "Dana K.")
		if err != nil || person.Name != "Dana K." {
			t.Fatalf("unexpected rename result %+v, %v", person, err)
		}

		if err := svc.DeletePerson(ctx, person.ID); err != nil {
			t.Fatalf("DeletePerson failed: %v", err)
		}
		if err := svc.DeletePerson(ctx, person.ID); !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPlanService_ReplaceAndPrune(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, seatplan.NewDocument())

	doc := officeDocument()
	doc.Assignments = seatplan.Assignments{monday: {"s1": "p1", "s2": "p1", "gone": "p2"}}
	if err := svc.Replace(ctx, doc); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if len(store.Stored().People) != 3 {
		t.Fatalf("expected replaced document to be saved")
	}

	dropped, err := svc.PruneAssignments(ctx)
	if err != nil {
		t.Fatalf("PruneAssignments failed: %v", err)
	}
	if dropped != 2 {
		t.Fatalf("expected 2 dropped entries, got %d", dropped)
	}
	if got := store.Stored().Assignments[monday]; len(got) != 1 || got["s1"] != "p1" {
		t.Fatalf("unexpected pruned day %v", got)
	}
}

func TestPlanService_SerialisesMutations(t *testing.T) {
	svc, store := newService(t, seatplan.NewDocument())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.AddPerson(context.Background(), fmt.Sprintf("Person %d", i)); err != nil {
				t.Errorf("AddPerson failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(store.Stored().People); got != 20 {
		t.Fatalf("expected 20 people, got %d", got)
	}
}

func ids(people []seatplan.Person) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.ID
	}
	return out
}

package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/seat-planner/internal/seatplan"
)

// DocumentStore captures the persistence operations needed by the service.
type DocumentStore interface {
	Load(ctx context.Context) (seatplan.Document, error)
	Save(ctx context.Context, doc seatplan.Document) error
}

// Recorder receives operational measurements.
type Recorder interface {
	ObserveAutoAssign(unseated int)
	ObserveStore(operation string, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAutoAssign(int) {}
func (nopRecorder) ObserveStore(string, error) {}

// PlanService owns the in-memory document. Every mutation runs a pure
// seatplan function under a mutex, swaps the document and saves it.
type PlanService struct {
	mu     sync.Mutex
	doc    seatplan.Document
	loaded bool

	store       DocumentStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
	recorder    Recorder
}

// NewPlanService constructs a plan service with the provided dependencies.
func NewPlanService(store DocumentStore, idGenerator func() string, now func() time.Time) *PlanService {
	return NewPlanServiceWithLogger(store, idGenerator, now, nil)
}

// NewPlanServiceWithLogger constructs a plan service with a specified logger.
func NewPlanServiceWithLogger(store DocumentStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PlanService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PlanService{
		store:       store,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
		recorder:    nopRecorder{},
	}
}

// SetRecorder installs a metrics recorder. It must be called before the
// service is shared.
func (s *PlanService) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	s.recorder = r
}

func (s *PlanService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PlanService", operation, attrs...)
}

// Today returns the current date according to the service clock.
func (s *PlanService) Today() time.Time {
	return seatplan.StartOfDay(s.now())
}

// Load reads the document from the store and makes the service ready.
func (s *PlanService) Load(ctx context.Context) (err error) {
	logger := s.loggerWith(ctx, "Load")

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc seatplan.Document
	doc, err = s.store.Load(ctx)
	s.recorder.ObserveStore("load", err)
	if err != nil {
		err = fmt.Errorf("load document: %w", err)
		logOutcome(ctx, logger, err, "")
		return err
	}

	s.doc = doc.Normalize()
	s.loaded = true
	logOutcome(ctx, logger, nil, "document loaded",
		"rooms", len(s.doc.Rooms),
		"seats", len(s.doc.Seats),
		"people", len(s.doc.People),
		"days", len(s.doc.Assignments),
	)
	return nil
}

// Loaded reports whether Load has succeeded.
func (s *PlanService) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Snapshot returns a deep copy of the current document.
func (s *PlanService) Snapshot(ctx context.Context) (seatplan.Document, error) {
	doc, err := s.current()
	if err != nil {
		return seatplan.Document{}, err
	}
	return doc.Clone(), nil
}

// Replace overwrites the whole document, as the original data endpoint does.
// The last writer wins.
func (s *PlanService) Replace(ctx context.Context, doc seatplan.Document) (err error) {
	logger := s.loggerWith(ctx, "Replace")
	defer func() { logOutcome(ctx, logger, err, "document replaced") }()

	next := doc.Clone().Normalize()
	return s.mutate(ctx, func(seatplan.Document) (seatplan.Document, error) {
		return next, nil
	})
}

// current returns the live document. Callers must treat it as read-only.
func (s *PlanService) current() (seatplan.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return seatplan.Document{}, ErrNotLoaded
	}
	return s.doc, nil
}

// mutate applies fn to the current document and commits the result. When
// saving fails the new document stays in memory and ErrSaveFailed is returned.
func (s *PlanService) mutate(ctx context.Context, fn func(seatplan.Document) (seatplan.Document, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	next, err := fn(s.doc)
	if err != nil {
		return err
	}
	s.doc = next

	err = s.store.Save(context.WithoutCancel(ctx), next)
	s.recorder.ObserveStore("save", err)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}

// AutoAssign seats everyone present on date who is not yet seated.
func (s *PlanService) AutoAssign(ctx context.Context, date string) (result AutoAssignResult, err error) {
	logger := s.loggerWith(ctx, "AutoAssign", "date", date)
	defer func() {
		logOutcome(ctx, logger, err, "auto-assignment completed",
			"assigned", len(result.Assignments),
			"unseated", len(result.Unseated),
		)
	}()

	day, vErr := parseDate(date)
	if vErr != nil {
		return result, vErr
	}
	result.Date = seatplan.DateKey(day)

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		assignments, unseated := seatplan.AutoAssign(doc.People, doc.Seats, doc.Assignments, day)
		doc.Assignments = assignments
		result.Assignments = assignments[result.Date].Clone()
		result.Unseated = unseated
		return doc, nil
	})
	if result.Assignments != nil {
		s.recorder.ObserveAutoAssign(len(result.Unseated))
	}
	if result.Unseated == nil {
		result.Unseated = []seatplan.Person{}
	}
	return result, err
}

// SetAssignment binds the seat to the person on date, replacing any previous
// occupant. An empty personID clears the seat. It does not check whether
// the person already sits elsewhere that day; see Candidates.
func (s *PlanService) SetAssignment(ctx context.Context, date, seatID, personID string) (day seatplan.DayAssignments, err error) {
	logger := s.loggerWith(ctx, "SetAssignment", "date", date, "seat_id", seatID, "person_id", personID)
	defer func() { logOutcome(ctx, logger, err, "assignment updated") }()

	parsed, vErr := parseDate(date)
	if vErr != nil {
		return nil, vErr
	}
	key := seatplan.DateKey(parsed)

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		if _, ok := seatplan.FindSeat(doc.Seats, seatID); !ok {
			return doc, ErrNotFound
		}
		if personID != "" {
			if _, ok := seatplan.FindPerson(doc.People, personID); !ok {
				return doc, ErrNotFound
			}
		}
		doc.Assignments = seatplan.SetAssignment(doc.Assignments, key, seatID, personID)
		day = doc.Assignments[key].Clone()
		return doc, nil
	})
	return day, err
}

// ClearDay removes every assignment of date.
func (s *PlanService) ClearDay(ctx context.Context, date string) (err error) {
	logger := s.loggerWith(ctx, "ClearDay", "date", date)
	defer func() { logOutcome(ctx, logger, err, "day cleared") }()

	parsed, vErr := parseDate(date)
	if vErr != nil {
		return vErr
	}

	return s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		doc.Assignments = seatplan.ClearDay(doc.Assignments, seatplan.DateKey(parsed))
		return doc, nil
	})
}

// PruneAssignments drops stale and duplicate assignment entries and returns
// how many were removed.
func (s *PlanService) PruneAssignments(ctx context.Context) (dropped int, err error) {
	logger := s.loggerWith(ctx, "PruneAssignments")
	defer func() { logOutcome(ctx, logger, err, "assignments pruned", "dropped", dropped) }()

	err = s.mutate(ctx, func(doc seatplan.Document) (seatplan.Document, error) {
		doc.Assignments, dropped = seatplan.PruneAssignments(doc)
		return doc, nil
	})
	return dropped, err
}

// Candidates lists the people a selection for seatID on date should offer.
func (s *PlanService) Candidates(ctx context.Context, date, seatID string) ([]seatplan.Person, error) {
	parsed, vErr := parseDate(date)
	if vErr != nil {
		return nil, vErr
	}
	doc, err := s.current()
	if err != nil {
		return nil, err
	}
	if _, ok := seatplan.FindSeat(doc.Seats, seatID); !ok {
		return nil, ErrNotFound
	}
	out := seatplan.Candidates(doc.People, doc.Assignments, parsed, seatID)
	if out == nil {
		out = []seatplan.Person{}
	}
	return out, nil
}

// DaySheet lists everyone present on date with their seat and room.
func (s *PlanService) DaySheet(ctx context.Context, date string) ([]seatplan.SheetLine, error) {
	parsed, vErr := parseDate(date)
	if vErr != nil {
		return nil, vErr
	}
	doc, err := s.current()
	if err != nil {
		return nil, err
	}
	return seatplan.DaySheet(doc, parsed), nil
}

// Week projects the Monday to Friday week containing date.
func (s *PlanService) Week(ctx context.Context, date string) (WeekPlan, error) {
	parsed, vErr := parseDate(date)
	if vErr != nil {
		return WeekPlan{}, vErr
	}
	doc, err := s.current()
	if err != nil {
		return WeekPlan{}, err
	}

	dates := seatplan.ProjectWeek(parsed)
	plan := WeekPlan{
		Dates: make([]string, len(dates)),
		Rows:  seatplan.WeekView(doc.People, doc.Seats, doc.Rooms, doc.Assignments, dates),
	}
	for i, d := range dates {
		plan.Dates[i] = seatplan.DateKey(d)
	}
	return plan, nil
}

func parseDate(value string) (time.Time, *ValidationError) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fieldError("date", "date is required")
	}
	t, err := seatplan.ParseDate(value)
	if err != nil {
		return time.Time{}, fieldError("date", "date must use the YYYY-MM-DD format")
	}
	return t, nil
}

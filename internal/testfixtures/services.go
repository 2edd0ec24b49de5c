package testfixtures

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/example/seat-planner/internal/application"
	"github.com/example/seat-planner/internal/seatplan"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// NewPlanService builds a plan service over store and loads it. A nil
// logger uses slog.Default.
func (f *ServiceFactory) NewPlanService(tb testing.TB, store application.DocumentStore, logger *slog.Logger) *application.PlanService {
	tb.Helper()
	svc := application.NewPlanServiceWithLogger(store, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), logger)
	if err := svc.Load(context.Background()); err != nil {
		tb.Fatalf("failed to load plan service: %v", err)
	}
	return svc
}

// MemoryStore is an in-memory application.DocumentStore with failure injection.
type MemoryStore struct {
	mu      sync.Mutex
	doc     seatplan.Document
	saves   int
	LoadErr error
	saveErr error
}

// NewMemoryStore returns a store holding doc.
func NewMemoryStore(doc seatplan.Document) *MemoryStore {
	return &MemoryStore{doc: doc.Clone()}
}

// Load returns a copy of the stored document or LoadErr.
func (m *MemoryStore) Load(ctx context.Context) (seatplan.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return seatplan.Document{}, m.LoadErr
	}
	return m.doc.Clone().Normalize(), nil
}

// Save stores a copy of doc. After FailSaves it returns the injected error
// and keeps the previous document.
func (m *MemoryStore) Save(ctx context.Context, doc seatplan.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.doc = doc.Clone()
	m.saves++
	return nil
}

// Stored returns a copy of the last saved document.
func (m *MemoryStore) Stored() seatplan.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Clone()
}

// Saves returns the number of successful saves.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailSaves makes subsequent saves return err; nil restores normal behaviour.
func (m *MemoryStore) FailSaves(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

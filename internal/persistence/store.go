package persistence

import (
	"context"

	"github.com/example/seat-planner/internal/seatplan"
)

// DocumentStore loads and saves the complete planner document. Save
// overwrites whatever was stored before; concurrent writers race and the
// last one wins.
type DocumentStore interface {
	// Load returns the stored document, or the default empty document when
	// nothing has been stored yet. Collections are never nil.
	Load(ctx context.Context) (seatplan.Document, error)
	Save(ctx context.Context, doc seatplan.Document) error
}

// Package jsonfile stores the planner document as a single JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/example/seat-planner/internal/persistence"
	"github.com/example/seat-planner/internal/seatplan"
)

// Store persists the document at Path. Saves go through a temporary file in
// the same directory followed by a rename, so readers never see a partial file.
type Store struct {
	path string
}

// New returns a store for the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document. A missing file is created with the default empty
// document, which is returned.
func (s *Store) Load(ctx context.Context) (seatplan.Document, error) {
	if err := ctx.Err(); err != nil {
		return seatplan.Document{}, err
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc := seatplan.NewDocument()
		if err := s.Save(ctx, doc); err != nil {
			return seatplan.Document{}, err
		}
		return doc, nil
	}
	if err != nil {
		return seatplan.Document{}, fmt.Errorf("jsonfile: read %s: %w", s.path, err)
	}

	var doc seatplan.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return seatplan.Document{}, fmt.Errorf("%w: %s: %v", persistence.ErrCorruptDocument, s.path, err)
	}
	return doc.Normalize(), nil
}

// Save writes the document as indented JSON, replacing the previous file.
func (s *Store) Save(ctx context.Context, doc seatplan.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(doc.Normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonfile: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("jsonfile: replace %s: %w", s.path, err)
	}
	return nil
}

var _ persistence.DocumentStore = (*Store)(nil)

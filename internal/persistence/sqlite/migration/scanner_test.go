package migration

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{"migrations": &fstest.MapFile{Mode: fs.ModeDir | 0o755}}
	for name, content := range files {
		fsys["migrations/"+name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestScanner_ScanMigrations(t *testing.T) {
	tests := []struct {
		name          string
		files         map[string]string
		expectedOrder []string
		expectError   error
		errorContains string
	}{
		{
			name: "sorts by numeric version",
			files: map[string]string{
				"010_add_index.sql":      "CREATE INDEX idx_seats_room ON seats(room_id);",
				"002_add_people.sql":     "CREATE TABLE people (id TEXT PRIMARY KEY);",
				"001_initial_schema.sql": "CREATE TABLE rooms (id TEXT PRIMARY KEY);",
			},
			expectedOrder: []string{"001", "002", "010"},
		},
		{
			name: "ignores non SQL files",
			files: map[string]string{
				"001_initial_schema.sql": "CREATE TABLE rooms (id TEXT PRIMARY KEY);",
				"README.md":              "# notes",
			},
			expectedOrder: []string{"001"},
		},
		{
			name:          "empty directory",
			files:         map[string]string{},
			expectedOrder: nil,
		},
		{
			name: "invalid filename",
			files: map[string]string{
				"initial.sql": "CREATE TABLE rooms (id TEXT PRIMARY KEY);",
			},
			expectError:   ErrInvalidMigrationFile,
			errorContains: "does not match pattern",
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_rooms.sql": "CREATE TABLE rooms (id TEXT PRIMARY KEY);",
				"001_seats.sql": "CREATE TABLE seats (id TEXT PRIMARY KEY);",
			},
			expectError: ErrDuplicateVersion,
		},
		{
			name: "comment only file",
			files: map[string]string{
				"001_empty.sql": "-- nothing here\n",
			},
			expectError: ErrInvalidMigrationFile,
		},
		{
			name: "unbalanced parentheses",
			files: map[string]string{
				"001_broken.sql": "CREATE TABLE rooms (id TEXT PRIMARY KEY;",
			},
			expectError:   ErrInvalidMigrationFile,
			errorContains: "parenthesis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			migrations, err := NewScanner(mapFS(tt.files), "migrations").ScanMigrations()

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Fatalf("expected error containing %q, got %v", tt.errorContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(migrations) != len(tt.expectedOrder) {
				t.Fatalf("expected %d migrations, got %d", len(tt.expectedOrder), len(migrations))
			}
			for i, version := range tt.expectedOrder {
				if migrations[i].Version != version {
					t.Errorf("position %d: expected version %s, got %s", i, version, migrations[i].Version)
				}
				if migrations[i].Checksum == "" {
					t.Errorf("migration %s has no checksum", version)
				}
			}
		})
	}
}

func TestScanner_Description(t *testing.T) {
	files := map[string]string{
		"001_initial_schema.sql": "-- Description: Floor plan tables\nCREATE TABLE rooms (id TEXT PRIMARY KEY);",
		"002_add_people.sql":     "CREATE TABLE people (id TEXT PRIMARY KEY);",
	}

	migrations, err := NewScanner(mapFS(files), "migrations").ScanMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if migrations[0].Description != "Floor plan tables" {
		t.Errorf("expected description from comment, got %q", migrations[0].Description)
	}
	if migrations[1].Description != "add people" {
		t.Errorf("expected description from filename, got %q", migrations[1].Description)
	}
	if migrations[0].FilePath != "migrations/001_initial_schema.sql" {
		t.Errorf("unexpected file path %q", migrations[0].FilePath)
	}
}

func TestScanner_MissingDirectory(t *testing.T) {
	_, err := NewScanner(fstest.MapFS{}, "migrations").ScanMigrations()
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestSplitStatements(t *testing.T) {
	sql := `-- Description: two tables
CREATE TABLE a (id TEXT);

-- second
CREATE TABLE b (id TEXT);
`
	statements := splitStatements(sql)
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(statements), statements)
	}
	if statements[1] != "CREATE TABLE b (id TEXT)" {
		t.Errorf("unexpected statement %q", statements[1])
	}
}

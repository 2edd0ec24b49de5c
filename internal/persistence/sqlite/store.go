// Package sqlite stores the planner document in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sort"

	"github.com/example/seat-planner/internal/persistence"
	"github.com/example/seat-planner/internal/persistence/sqlite/migration"
	"github.com/example/seat-planner/internal/seatplan"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store implements persistence.DocumentStore on top of SQLite. Save replaces
// every row in a single transaction.
type Store struct {
	db *database
}

// Open connects to the database described by config and applies pending
// schema migrations.
func Open(ctx context.Context, config migration.SQLiteConfig, logger *slog.Logger) (*Store, error) {
	db, err := openDatabase(config)
	if err != nil {
		return nil, err
	}

	manager := migration.NewManager(
		migration.NewScanner(migrationFiles, "migrations"),
		migration.NewSQLiteExecutor(db.db),
		logger,
	)
	if err := manager.Run(ctx); err != nil {
		_ = db.close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.close()
}

// Load reads the document. An empty database yields the default document.
func (s *Store) Load(ctx context.Context) (seatplan.Document, error) {
	doc := seatplan.NewDocument()
	err := s.db.inTx(ctx, func(tx *sql.Tx) error {
		doc = seatplan.NewDocument()
		var err error
		if doc.Rooms, err = loadRooms(ctx, tx); err != nil {
			return err
		}
		if doc.Seats, err = loadSeats(ctx, tx); err != nil {
			return err
		}
		if doc.People, err = loadPeople(ctx, tx); err != nil {
			return err
		}
		doc.Assignments, err = loadAssignments(ctx, tx)
		return err
	})
	if err != nil {
		return seatplan.Document{}, fmt.Errorf("sqlite: load: %w", err)
	}
	return doc.Normalize(), nil
}

// Save replaces the stored document.
func (s *Store) Save(ctx context.Context, doc seatplan.Document) error {
	doc = doc.Normalize()
	err := s.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"assignments", "assignment_days", "seat_features", "seats", "person_days", "people", "rooms"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := saveRooms(ctx, tx, doc.Rooms); err != nil {
			return err
		}
		if err := saveSeats(ctx, tx, doc.Seats); err != nil {
			return err
		}
		if err := savePeople(ctx, tx, doc.People); err != nil {
			return err
		}
		return saveAssignments(ctx, tx, doc.Assignments)
	})
	if err != nil {
		return fmt.Errorf("sqlite: save: %w", err)
	}
	return nil
}

func loadRooms(ctx context.Context, tx *sql.Tx) ([]seatplan.Room, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, x, y, w, h, seat_count FROM rooms ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	rooms := []seatplan.Room{}
	for rows.Next() {
		var (
			r     seatplan.Room
			count int
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.X, &r.Y, &r.W, &r.H, &count); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		r.SeatCount = seatplan.SeatCount(count)
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func loadSeats(ctx context.Context, tx *sql.Tx) ([]seatplan.Seat, error) {
	rows, err := tx.QueryContext(ctx, `SELECT ordinal, id, x, y, room_id FROM seats ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query seats: %w", err)
	}
	defer rows.Close()

	seats := []seatplan.Seat{}
	index := map[int64]int{}
	for rows.Next() {
		var (
			s       seatplan.Seat
			ordinal int64
			roomID  sql.NullString
		)
		if err := rows.Scan(&ordinal, &s.ID, &s.X, &s.Y, &roomID); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		if roomID.Valid {
			id := roomID.String
			s.RoomID = &id
		}
		s.Features = []string{}
		index[ordinal] = len(seats)
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	featureRows, err := tx.QueryContext(ctx, `SELECT seat_ordinal, feature FROM seat_features ORDER BY seat_ordinal, ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query seat features: %w", err)
	}
	defer featureRows.Close()

	for featureRows.Next() {
		var (
			seatOrdinal int64
			feature     string
		)
		if err := featureRows.Scan(&seatOrdinal, &feature); err != nil {
			return nil, fmt.Errorf("scan seat feature: %w", err)
		}
		if i, ok := index[seatOrdinal]; ok {
			seats[i].Features = append(seats[i].Features, feature)
		}
	}
	return seats, featureRows.Err()
}

func loadPeople(ctx context.Context, tx *sql.Tx) ([]seatplan.Person, error) {
	rows, err := tx.QueryContext(ctx, `SELECT ordinal, id, name FROM people ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query people: %w", err)
	}
	defer rows.Close()

	people := []seatplan.Person{}
	index := map[int64]int{}
	for rows.Next() {
		var (
			p       seatplan.Person
			ordinal int64
		)
		if err := rows.Scan(&ordinal, &p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		p.Days = []string{}
		index[ordinal] = len(people)
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := tx.QueryContext(ctx, `SELECT person_ordinal, day FROM person_days ORDER BY person_ordinal, ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query person days: %w", err)
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var (
			personOrdinal int64
			day           string
		)
		if err := dayRows.Scan(&personOrdinal, &day); err != nil {
			return nil, fmt.Errorf("scan person day: %w", err)
		}
		if i, ok := index[personOrdinal]; ok {
			people[i].Days = append(people[i].Days, day)
		}
	}
	return people, dayRows.Err()
}

func loadAssignments(ctx context.Context, tx *sql.Tx) (seatplan.Assignments, error) {
	assignments := seatplan.Assignments{}

	dayRows, err := tx.QueryContext(ctx, `SELECT date FROM assignment_days`)
	if err != nil {
		return nil, fmt.Errorf("query assignment days: %w", err)
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var date string
		if err := dayRows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan assignment day: %w", err)
		}
		assignments[date] = seatplan.DayAssignments{}
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `SELECT date, seat_id, person_id FROM assignments`)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var date, seatID, personID string
		if err := rows.Scan(&date, &seatID, &personID); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments[date][seatID] = personID
	}
	return assignments, rows.Err()
}

func saveRooms(ctx context.Context, tx *sql.Tx, rooms []seatplan.Room) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO rooms (ordinal, id, name, x, y, w, h, seat_count) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare rooms: %w", err)
	}
	defer stmt.Close()

	for i, r := range rooms {
		if _, err := stmt.ExecContext(ctx, i, r.ID, r.Name, r.X, r.Y, r.W, r.H, int(r.SeatCount)); err != nil {
			return fmt.Errorf("insert room %s: %w", r.ID, err)
		}
	}
	return nil
}

func saveSeats(ctx context.Context, tx *sql.Tx, seats []seatplan.Seat) error {
	seatStmt, err := tx.PrepareContext(ctx, `INSERT INTO seats (ordinal, id, x, y, room_id) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare seats: %w", err)
	}
	defer seatStmt.Close()

	featureStmt, err := tx.PrepareContext(ctx, `INSERT INTO seat_features (seat_ordinal, ordinal, feature) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare seat features: %w", err)
	}
	defer featureStmt.Close()

	for i, s := range seats {
		var roomID sql.NullString
		if s.RoomID != nil {
			roomID = sql.NullString{String: *s.RoomID, Valid: true}
		}
		if _, err := seatStmt.ExecContext(ctx, i, s.ID, s.X, s.Y, roomID); err != nil {
			return fmt.Errorf("insert seat %s: %w", s.ID, err)
		}
		for j, f := range s.Features {
			if _, err := featureStmt.ExecContext(ctx, i, j, f); err != nil {
				return fmt.Errorf("insert feature %s of seat %s: %w", f, s.ID, err)
			}
		}
	}
	return nil
}

func savePeople(ctx context.Context, tx *sql.Tx, people []seatplan.Person) error {
	personStmt, err := tx.PrepareContext(ctx, `INSERT INTO people (ordinal, id, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare people: %w", err)
	}
	defer personStmt.Close()

	dayStmt, err := tx.PrepareContext(ctx, `INSERT INTO person_days (person_ordinal, ordinal, day) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare person days: %w", err)
	}
	defer dayStmt.Close()

	for i, p := range people {
		if _, err := personStmt.ExecContext(ctx, i, p.ID, p.Name); err != nil {
			return fmt.Errorf("insert person %s: %w", p.ID, err)
		}
		for j, d := range p.Days {
			if _, err := dayStmt.ExecContext(ctx, i, j, d); err != nil {
				return fmt.Errorf("insert day %s of person %s: %w", d, p.ID, err)
			}
		}
	}
	return nil
}

func saveAssignments(ctx context.Context, tx *sql.Tx, assignments seatplan.Assignments) error {
	dayStmt, err := tx.PrepareContext(ctx, `INSERT INTO assignment_days (date) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("prepare assignment days: %w", err)
	}
	defer dayStmt.Close()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO assignments (date, seat_id, person_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare assignments: %w", err)
	}
	defer stmt.Close()

	dates := make([]string, 0, len(assignments))
	for date := range assignments {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		if _, err := dayStmt.ExecContext(ctx, date); err != nil {
			return fmt.Errorf("insert assignment day %s: %w", date, err)
		}
		for seatID, personID := range assignments[date] {
			if _, err := stmt.ExecContext(ctx, date, seatID, personID); err != nil {
				return fmt.Errorf("insert assignment %s/%s: %w", date, seatID, err)
			}
		}
	}
	return nil
}

var _ persistence.DocumentStore = (*Store)(nil)

// Package vocab stores known verbs and reminders in SQLite.
package vocab

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Tiliavir/memex/internal/model"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS verbs (
	id         TEXT PRIMARY KEY,
	verb       TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS reminders (
	id               TEXT PRIMARY KEY,
	verb             TEXT NOT NULL,
	title            TEXT NOT NULL,
	kind             TEXT NOT NULL,
	interval_seconds INTEGER NOT NULL DEFAULT 0,
	hour             INTEGER NOT NULL DEFAULT 0,
	minute           INTEGER NOT NULL DEFAULT 0,
	created_at       INTEGER NOT NULL
);`

// Store is the verb and reminder database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddVerb records a new verb. Verbs are trimmed and must be unique.
func (s *Store) AddVerb(ctx context.Context, verb string) (model.Verb, error) {
	verb = strings.TrimSpace(verb)
	if verb == "" {
		return model.Verb{}, errors.New("verb must not be empty")
	}
	v := model.Verb{ID: model.NewID(), Verb: verb, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verbs (id, verb, created_at) VALUES (?, ?, ?)`,
		v.ID, v.Verb, v.CreatedAt.Unix())
	if err != nil {
		return model.Verb{}, fmt.Errorf("adding verb %q: %w", verb, err)
	}
	return v, nil
}

// ListVerbs returns all verbs sorted alphabetically.
func (s *Store) ListVerbs(ctx context.Context) ([]model.Verb, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, verb, created_at FROM verbs ORDER BY verb ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing verbs: %w", err)
	}
	defer rows.Close()

	verbs := []model.Verb{}
	for rows.Next() {
		var (
			v       model.Verb
			created int64
		)
		if err := rows.Scan(&v.ID, &v.Verb, &created); err != nil {
			return nil, fmt.Errorf("scanning verb: %w", err)
		}
		v.CreatedAt = time.Unix(created, 0).UTC()
		verbs = append(verbs, v)
	}
	return verbs, rows.Err()
}

// DeleteVerb removes the verb with the given ID.
func (s *Store) DeleteVerb(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "verbs", id)
}

// AddReminder validates and stores r, assigning its ID and creation time.
func (s *Store) AddReminder(ctx context.Context, r model.Reminder) (model.Reminder, error) {
	if err := Validate(r); err != nil {
		return model.Reminder{}, err
	}
	r.ID = model.NewID()
	r.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (id, verb, title, kind, interval_seconds, hour, minute, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Verb, r.Title, string(r.Kind), int64(r.Interval/time.Second), r.Hour, r.Minute, r.CreatedAt.Unix())
	if err != nil {
		return model.Reminder{}, fmt.Errorf("adding reminder: %w", err)
	}
	return r, nil
}

// Validate checks the fields required by r's kind.
func Validate(r model.Reminder) error {
	if strings.TrimSpace(r.Verb) == "" {
		return errors.New("reminder verb must not be empty")
	}
	switch r.Kind {
	case model.ReminderInterval:
		if r.Interval < time.Second {
			return fmt.Errorf("reminder interval must be at least 1s, got %v", r.Interval)
		}
	case model.ReminderDaily:
		if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
			return fmt.Errorf("invalid reminder time %02d:%02d", r.Hour, r.Minute)
		}
	default:
		return fmt.Errorf("unknown reminder kind %q", r.Kind)
	}
	return nil
}

const reminderColumns = `id, verb, title, kind, interval_seconds, hour, minute, created_at`

// ListReminders returns all reminders in insertion order.
func (s *Store) ListReminders(ctx context.Context) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+reminderColumns+` FROM reminders ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	defer rows.Close()

	reminders := []model.Reminder{}
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// GetReminder returns the reminder with the given ID.
func (s *Store) GetReminder(ctx context.Context, id string) (model.Reminder, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	r, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reminder{}, fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	}
	return r, err
}

// DeleteReminder removes the reminder with the given ID.
func (s *Store) DeleteReminder(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "reminders", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(sc scanner) (model.Reminder, error) {
	var (
		r        model.Reminder
		kind     string
		interval int64
		created  int64
	)
	if err := sc.Scan(&r.ID, &r.Verb, &r.Title, &kind, &interval, &r.Hour, &r.Minute, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, err
		}
		return model.Reminder{}, fmt.Errorf("scanning reminder: %w", err)
	}
	r.Kind = model.ReminderKind(kind)
	r.Interval = time.Duration(interval) * time.Second
	r.CreatedAt = time.Unix(created, 0).UTC()
	return r, nil
}

func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", strings.TrimSuffix(table, "s"), id, ErrNotFound)
	}
	return nil
}

// Package memex is the log engine. All mutations go through Engine, which
// rewrites the whole file from the full entry set and then reloads it, so
// the in-memory view always equals what parsing the file yields.
//
// An Engine is not safe for concurrent use; callers serialize access.
package memex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tiliavir/memex/internal/codec"
	"github.com/Tiliavir/memex/internal/collection"
	"github.com/Tiliavir/memex/internal/model"
	"github.com/Tiliavir/memex/internal/storage"
)

var (
	// ErrEmptyMessage means the text is empty once the comment is removed.
	ErrEmptyMessage = errors.New("empty message")
	// ErrEntryNotFound means no entry has the requested ID.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrMessageTooLong means the message would not fit on one log line.
	ErrMessageTooLong = errors.New("message too long")
)

// MaxMessageSize is the longest raw message accepted, leaving room on the
// line for the timestamp and comment delimiter.
const MaxMessageSize = storage.MaxLineSize - 64

// Observer receives the grouped view after every load.
type Observer func(groups []model.DayGroup)

// Engine owns the log store and the grouped view derived from it.
type Engine struct {
	store     *storage.Store
	groups    []model.DayGroup
	loc       *time.Location
	now       func() time.Time
	log       zerolog.Logger
	observers []Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for new entries and age cutoffs.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the calendar used for day grouping and new timestamps.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New builds an engine on an open store and loads it.
func New(store *storage.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store: store,
		loc:   time.Local,
		now:   time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.Reload(); err != nil {
		return nil, err
	}
	return e, nil
}

// Open opens the log file at path and builds an engine on it.
func Open(path string, storeOpts []storage.Option, opts ...Option) (*Engine, error) {
	store, err := storage.Open(path, storeOpts...)
	if err != nil {
		return nil, err
	}
	e, err := New(store, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return e, nil
}

// Close releases the log file.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Path returns the log file location.
func (e *Engine) Path() string {
	return e.store.Path()
}

// Location returns the calendar used for grouping.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Subscribe registers fn to be called after every reload.
func (e *Engine) Subscribe(fn Observer) {
	e.observers = append(e.observers, fn)
}

// Reload re-reads the file and publishes a fresh grouped view.
func (e *Engine) Reload() error {
	entries, err := e.store.Load()
	if err != nil {
		return err
	}
	e.publish(entries)
	return nil
}

func (e *Engine) publish(entries []model.Entry) {
	e.groups = collection.Regroup(entries, e.loc)
	snapshot := e.Groups()
	for _, fn := range e.observers {
		fn(snapshot)
	}
}

// Groups returns a copy of the grouped view.
func (e *Engine) Groups() []model.DayGroup {
	out := make([]model.DayGroup, len(e.groups))
	for i, g := range e.groups {
		out[i] = model.DayGroup{Date: g.Date, Entries: append([]model.Entry(nil), g.Entries...)}
	}
	return out
}

// Entries returns every entry in chronological order.
func (e *Engine) Entries() []model.Entry {
	return collection.Flatten(e.groups)
}

// Len returns the number of entries.
func (e *Engine) Len() int {
	return collection.Count(e.groups)
}

// Lookup returns the entry with the given ID.
func (e *Engine) Lookup(id string) (model.Entry, error) {
	for _, g := range e.groups {
		for _, entry := range g.Entries {
			if entry.ID == id {
				return entry, nil
			}
		}
	}
	return model.Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}

// LastEntryID returns the ID of the newest entry, or false for an empty log.
func (e *Engine) LastEntryID() (string, bool) {
	if len(e.groups) == 0 {
		return "", false
	}
	last := e.groups[len(e.groups)-1].Entries
	return last[len(last)-1].ID, true
}

// commit writes flat to disk, reloads it and carries the IDs of flat over to
// the reloaded entries. The file holds exactly the lines written, in order,
// so the carry-over is positional.
func (e *Engine) commit(op string, flat []model.Entry) error {
	if err := e.store.Rewrite(flat); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	loaded, err := e.store.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(loaded) == len(flat) {
		for i := range loaded {
			loaded[i].ID = flat[i].ID
		}
	} else {
		e.log.Warn().Str("op", op).Int("written", len(flat)).Int("loaded", len(loaded)).
			Msg("reloaded entry count differs from written, IDs regenerated")
	}
	e.publish(loaded)
	e.log.Debug().Str("op", op).Int("entries", len(loaded)).Msg("log rewritten")
	return nil
}

// flattenMessage makes raw fit on one line.
func flattenMessage(raw string) string {
	return strings.Join(strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '\r' }), " ")
}

// ParseMessage splits raw user input into text and comment. It returns
// ErrEmptyMessage when no text is left and ErrMessageTooLong when raw exceeds
// MaxMessageSize.
func ParseMessage(raw string) (string, *string, error) {
	if len(raw) > MaxMessageSize {
		return "", nil, fmt.Errorf("%w: %d bytes, limit %d", ErrMessageTooLong, len(raw), MaxMessageSize)
	}
	text, comment := codec.ExtractComment(flattenMessage(raw))
	if text == "" {
		return "", nil, ErrEmptyMessage
	}
	return text, comment, nil
}

// Watch reports changes made to the log file by other processes. Call Reload
// to pick them up.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	return e.store.Watch(ctx)
}

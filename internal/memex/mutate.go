package memex

import (
	"errors"
	"time"

	"github.com/Tiliavir/memex/internal/codec"
	"github.com/Tiliavir/memex/internal/model"
)

// Add logs raw at the current time. The text after the last "#" becomes the
// comment. Input with no text left is ignored: Add returns nil and the file is
// not touched. Input longer than MaxMessageSize is rejected before any write.
func (e *Engine) Add(raw string) (*model.Entry, error) {
	return e.AddAt(raw, e.now())
}

// AddAt is Add with a caller-chosen timestamp.
func (e *Engine) AddAt(raw string, at time.Time) (*model.Entry, error) {
	text, comment, err := ParseMessage(raw)
	if errors.Is(err, ErrEmptyMessage) {
		e.log.Debug().Msg("ignoring empty message")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entry := model.Entry{
		ID:      model.NewID(),
		Time:    at.In(e.loc).Truncate(time.Second),
		Text:    text,
		Comment: comment,
	}
	flat := append(e.Entries(), entry)
	if err := e.commit("add", flat); err != nil {
		return nil, err
	}
	added, err := e.Lookup(entry.ID)
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// Edit replaces the entry that has edited's ID, keeping its position. An
// unknown ID changes nothing but the file is still rewritten. Text and
// comment are re-split the way the file will be read back, so a "#" in the
// text becomes a comment delimiter. An edit whose text is empty is ignored;
// one longer than MaxMessageSize is rejected.
func (e *Engine) Edit(edited model.Entry) error {
	text, comment, err := ParseMessage(codec.TextAndComment(edited))
	if errors.Is(err, ErrEmptyMessage) {
		e.log.Debug().Str("id", edited.ID).Msg("ignoring edit with empty text")
		return nil
	}
	if err != nil {
		return err
	}
	edited.Text, edited.Comment = text, comment

	flat := e.Entries()
	for i := range flat {
		if flat[i].ID == edited.ID {
			flat[i] = edited
		}
	}
	return e.commit("edit", flat)
}

// EditText re-parses raw into text and comment for the entry with the given
// ID. Raw input without text leaves the entry unchanged.
func (e *Engine) EditText(id, raw string) error {
	current, err := e.Lookup(id)
	if err != nil {
		return e.commit("edit", e.Entries())
	}
	text, comment, err := ParseMessage(raw)
	switch {
	case err == nil:
		current.Text = text
		current.Comment = comment
	case !errors.Is(err, ErrEmptyMessage):
		return err
	}
	return e.Edit(current)
}

// EditTime moves the entry with the given ID to t.
func (e *Engine) EditTime(id string, t time.Time) error {
	current, err := e.Lookup(id)
	if err != nil {
		return e.commit("edit", e.Entries())
	}
	current.Time = t.Truncate(time.Second)
	return e.Edit(current)
}

// DeleteOne removes the entry with the given ID, if any.
func (e *Engine) DeleteOne(id string) error {
	return e.commit("delete", e.filter(func(entry model.Entry) bool {
		return entry.ID != id
	}))
}

// CountBefore reports how many entries DeleteAllBefore(ref) would remove.
func (e *Engine) CountBefore(ref model.Entry) int {
	return e.Len() - len(e.filter(notBefore(ref.Time)))
}

// DeleteAllBefore removes every entry strictly older than ref. Entries at the
// same instant as ref, ref included, are kept.
func (e *Engine) DeleteAllBefore(ref model.Entry) error {
	return e.commit("delete-before", e.filter(notBefore(ref.Time)))
}

// CountOlderThan reports how many entries DeleteOlderThan(age) would remove.
func (e *Engine) CountOlderThan(age time.Duration) int {
	return e.Len() - len(e.filter(notBefore(e.now().Add(-age))))
}

// DeleteOlderThan removes every entry more than age in the past and returns
// how many were removed.
func (e *Engine) DeleteOlderThan(age time.Duration) (int, error) {
	before := e.Len()
	kept := e.filter(notBefore(e.now().Add(-age)))
	if err := e.commit("delete-older", kept); err != nil {
		return 0, err
	}
	return before - len(kept), nil
}

func notBefore(cutoff time.Time) func(model.Entry) bool {
	return func(entry model.Entry) bool {
		return !entry.Time.Before(cutoff)
	}
}

// filter returns the chronological entries for which keep is true.
func (e *Engine) filter(keep func(model.Entry) bool) []model.Entry {
	all := e.Entries()
	out := make([]model.Entry, 0, len(all))
	for _, entry := range all {
		if keep(entry) {
			out = append(out, entry)
		}
	}
	return out
}

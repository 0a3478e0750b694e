package vocab_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/memex/internal/model"
	"github.com/Tiliavir/memex/internal/vocab"
)

func openStore(t *testing.T) *vocab.Store {
	t.Helper()
	s, err := vocab.Open(context.Background(), filepath.Join(t.TempDir(), "db", "memex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestVerbs(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.AddVerb(ctx, "  walked ")
	require.NoError(t, err)
	ate, err := s.AddVerb(ctx, "ate")
	require.NoError(t, err)

	_, err = s.AddVerb(ctx, "ate")
	assert.Error(t, err, "duplicate verb")
	_, err = s.AddVerb(ctx, "   ")
	assert.Error(t, err, "empty verb")

	verbs, err := s.ListVerbs(ctx)
	require.NoError(t, err)
	require.Len(t, verbs, 2)
	assert.Equal(t, "ate", verbs[0].Verb)
	assert.Equal(t, "walked", verbs[1].Verb)

	require.NoError(t, s.DeleteVerb(ctx, ate.ID))
	err = s.DeleteVerb(ctx, ate.ID)
	assert.True(t, errors.Is(err, vocab.ErrNotFound))

	verbs, err = s.ListVerbs(ctx)
	require.NoError(t, err)
	assert.Len(t, verbs, 1)
}

func TestReminders(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	poll, err := s.AddReminder(ctx, model.Reminder{
		Verb: "drank", Title: "Water?", Kind: model.ReminderInterval, Interval: 2 * time.Hour,
	})
	require.NoError(t, err)
	require.NotEmpty(t, poll.ID)

	daily, err := s.AddReminder(ctx, model.Reminder{
		Verb: "slept", Title: "How did you sleep?", Kind: model.ReminderDaily, Hour: 8, Minute: 30,
	})
	require.NoError(t, err)

	all, err := s.ListReminders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, poll.ID, all[0].ID)
	assert.Equal(t, 2*time.Hour, all[0].Interval)
	assert.Equal(t, model.ReminderDaily, all[1].Kind)
	assert.Equal(t, 8, all[1].Hour)
	assert.Equal(t, 30, all[1].Minute)

	got, err := s.GetReminder(ctx, daily.ID)
	require.NoError(t, err)
	assert.Equal(t, "How did you sleep?", got.Title)

	require.NoError(t, s.DeleteReminder(ctx, daily.ID))
	_, err = s.GetReminder(ctx, daily.ID)
	assert.ErrorIs(t, err, vocab.ErrNotFound)
	assert.ErrorIs(t, s.DeleteReminder(ctx, daily.ID), vocab.ErrNotFound)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		r    model.Reminder
		ok   bool
	}{
		{"interval ok", model.Reminder{Verb: "v", Kind: model.ReminderInterval, Interval: time.Minute}, true},
		{"interval zero", model.Reminder{Verb: "v", Kind: model.ReminderInterval}, false},
		{"daily ok", model.Reminder{Verb: "v", Kind: model.ReminderDaily, Hour: 23, Minute: 59}, true},
		{"daily bad hour", model.Reminder{Verb: "v", Kind: model.ReminderDaily, Hour: 24}, false},
		{"daily bad minute", model.Reminder{Verb: "v", Kind: model.ReminderDaily, Minute: -1}, false},
		{"no verb", model.Reminder{Kind: model.ReminderDaily}, false},
		{"unknown kind", model.Reminder{Verb: "v", Kind: "weekly"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := vocab.Validate(tt.r)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

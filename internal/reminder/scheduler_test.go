package reminder_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/memex/internal/memex"
	"github.com/Tiliavir/memex/internal/model"
	"github.com/Tiliavir/memex/internal/reminder"
)

func TestEventMessage(t *testing.T) {
	tests := []struct {
		name string
		ev   reminder.Event
		want string
	}{
		{"poll", reminder.Event{Verb: "drank", Response: "a glass of water", Source: reminder.SourcePoll}, "drank a glass of water (polled)"},
		{"scheduled", reminder.Event{Verb: "slept", Response: " 7h ", Source: reminder.SourceScheduled}, "slept 7h (scheduled)"},
		{"comment kept last", reminder.Event{Verb: "ate", Response: "pasta # too much", Source: reminder.SourcePoll}, "ate pasta (polled) # too much"},
		{"comment only", reminder.Event{Verb: "ate", Response: "# skipped", Source: reminder.SourcePoll}, "ate (polled) # skipped"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ev.Message())
		})
	}
}

func TestNextFire(t *testing.T) {
	now := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)

	interval := model.Reminder{Kind: model.ReminderInterval, Interval: 90 * time.Minute}
	assert.Equal(t, now.Add(90*time.Minute), reminder.NextFire(interval, now))

	daily := model.Reminder{Kind: model.ReminderDaily, Hour: 8, Minute: 15}
	assert.Equal(t, time.Date(2024, 1, 2, 8, 15, 0, 0, time.UTC), reminder.NextFire(daily, now))

	evening := model.Reminder{Kind: model.ReminderDaily, Hour: 22, Minute: 30}
	assert.Equal(t, time.Date(2024, 1, 1, 22, 30, 0, 0, time.UTC), reminder.NextFire(evening, now))
}

func TestSourceOf(t *testing.T) {
	assert.Equal(t, reminder.SourcePoll, reminder.SourceOf(model.ReminderInterval))
	assert.Equal(t, reminder.SourceScheduled, reminder.SourceOf(model.ReminderDaily))
}

func drain(t *testing.T, events <-chan reminder.Event) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("events channel not closed")
		}
	}
}

func TestSchedulerEmitsAnswers(t *testing.T) {
	var calls atomic.Int32
	prompter := reminder.PromptFunc(func(ctx context.Context, r model.Reminder) (string, error) {
		switch calls.Add(1) {
		case 1:
			return "   ", nil
		case 2:
			return "", errors.New("terminal closed")
		default:
			return "a glass # cold", nil
		}
	})
	s := reminder.NewScheduler([]model.Reminder{
		{ID: "r1", Verb: "drank", Kind: model.ReminderInterval, Interval: 10 * time.Millisecond},
	}, prompter)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case ev := <-s.Events():
		assert.Equal(t, "r1", ev.ReminderID)
		assert.Equal(t, reminder.SourcePoll, ev.Source)
		assert.Equal(t, "drank a glass (polled) # cold", ev.Message())
	case <-time.After(5 * time.Second):
		t.Fatal("no event emitted")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(3))

	cancel()
	drain(t, s.Events())
	require.NoError(t, <-done)
}

func TestSchedulerWithoutRemindersWaitsForCancel(t *testing.T) {
	s := reminder.NewScheduler(nil, reminder.PromptFunc(func(context.Context, model.Reminder) (string, error) {
		t.Error("prompt must not be called")
		return "", nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	drain(t, s.Events())
	require.NoError(t, <-done)
}

func TestAnswersLandInLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memex.txt")
	fixed := time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC)
	engine, err := memex.Open(path, nil,
		memex.WithLocation(time.UTC),
		memex.WithClock(func() time.Time { return fixed }),
	)
	require.NoError(t, err)
	defer engine.Close()

	s := reminder.NewScheduler([]model.Reminder{
		{ID: "r1", Verb: "stretched", Kind: model.ReminderInterval, Interval: 10 * time.Millisecond},
	}, reminder.PromptFunc(func(context.Context, model.Reminder) (string, error) {
		return "10 min", nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	ev := <-s.Events()
	_, err = engine.Add(ev.Message())
	require.NoError(t, err)
	cancel()
	drain(t, s.Events())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "stretched 10 min (polled) on 2024-02-02T12:00:00+00:00\n", string(data))
	assert.True(t, strings.HasSuffix(engine.Entries()[0].Text, "(polled)"))
}

// Package reminder fires stored reminders, asks for a response and emits it
// as an Event. It knows nothing about the log; the consumer feeds
// Event.Message into the engine's Add.
package reminder

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tiliavir/memex/internal/codec"
	"github.com/Tiliavir/memex/internal/model"
	"github.com/Tiliavir/memex/internal/timecalc"
)

// Source tells which kind of reminder produced a response.
type Source string

const (
	// SourcePoll marks answers to repeating interval reminders.
	SourcePoll Source = "polled"
	// SourceScheduled marks answers to daily time-of-day reminders.
	SourceScheduled Source = "scheduled"
)

// SourceOf maps a reminder kind to its answer source.
func SourceOf(kind model.ReminderKind) Source {
	if kind == model.ReminderDaily {
		return SourceScheduled
	}
	return SourcePoll
}

// Event is a user's answer to a fired reminder.
type Event struct {
	ReminderID string
	Verb       string
	Response   string
	Source     Source
	At         time.Time
}

// Message builds the raw log message: verb, response text and the source
// tag, followed by the response's comment if it had one.
func (e Event) Message() string {
	text, comment := codec.ExtractComment(e.Response)
	parts := []string{strings.TrimSpace(e.Verb)}
	if text != "" {
		parts = append(parts, text)
	}
	parts = append(parts, "("+string(e.Source)+")")
	msg := strings.Join(parts, " ")
	if comment != nil {
		msg += " # " + *comment
	}
	return msg
}

// Prompter asks the user to answer a reminder.
type Prompter interface {
	Prompt(ctx context.Context, r model.Reminder) (string, error)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(ctx context.Context, r model.Reminder) (string, error)

// Prompt calls f.
func (f PromptFunc) Prompt(ctx context.Context, r model.Reminder) (string, error) {
	return f(ctx, r)
}

// NextFire returns when r fires next after t. Daily reminders use t's
// location.
func NextFire(r model.Reminder, t time.Time) time.Time {
	if r.Kind == model.ReminderDaily {
		return timecalc.NextClock(t, r.Hour, r.Minute)
	}
	return t.Add(r.Interval)
}

// Scheduler runs a fixed set of reminders.
type Scheduler struct {
	reminders []model.Reminder
	prompter  Prompter
	events    chan Event
	now       func() time.Time
	loc       *time.Location
	log       zerolog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLocation sets the zone daily reminders are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// NewScheduler creates a scheduler for reminders answered through p.
func NewScheduler(reminders []model.Reminder, p Prompter, opts ...Option) *Scheduler {
	s := &Scheduler{
		reminders: append([]model.Reminder(nil), reminders...),
		prompter:  p,
		events:    make(chan Event),
		now:       time.Now,
		loc:       time.Local,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the answer stream. It is closed when Run returns.
func (s *Scheduler) Events() <-chan Event {
	return s.events
}

// Run fires reminders until ctx is done. Reminders are handled one at a time;
// one that comes due while another is being answered fires right after.
func (s *Scheduler) Run(ctx context.Context) error {
	defer close(s.events)

	if len(s.reminders) == 0 {
		<-ctx.Done()
		return nil
	}

	next := make([]time.Time, len(s.reminders))
	start := s.now().In(s.loc)
	for i, r := range s.reminders {
		next[i] = NextFire(r, start)
		s.log.Debug().Str("verb", r.Verb).Time("next", next[i]).Msg("reminder scheduled")
	}

	for {
		i := earliest(next)
		timer := time.NewTimer(next[i].Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		r := s.reminders[i]
		fired := s.now().In(s.loc)
		next[i] = NextFire(r, fired)

		resp, err := s.prompter.Prompt(ctx, r)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Warn().Err(err).Str("verb", r.Verb).Msg("reminder prompt failed")
			continue
		}
		if strings.TrimSpace(resp) == "" {
			s.log.Debug().Str("verb", r.Verb).Msg("empty reminder answer ignored")
			continue
		}

		ev := Event{ReminderID: r.ID, Verb: r.Verb, Response: resp, Source: SourceOf(r.Kind), At: fired}
		select {
		case s.events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

func earliest(times []time.Time) int {
	best := 0
	for i := 1; i < len(times); i++ {
		if times[i].Before(times[best]) {
			best = i
		}
	}
	return best
}

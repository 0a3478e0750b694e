package model

import "time"

// Verb is a known message prefix offered for quick entry and reminders.
type Verb struct {
	ID        string    `json:"id"`
	Verb      string    `json:"verb"`
	CreatedAt time.Time `json:"created_at"`
}

// ReminderKind selects how a reminder is triggered.
type ReminderKind string

const (
	// ReminderInterval repeats every Interval.
	ReminderInterval ReminderKind = "interval"
	// ReminderDaily fires once a day at Hour:Minute.
	ReminderDaily ReminderKind = "daily"
)

// Reminder asks the user for a response and logs it prefixed with Verb.
type Reminder struct {
	ID        string        `json:"id"`
	Verb      string        `json:"verb"`
	Title     string        `json:"title"`
	Kind      ReminderKind  `json:"kind"`
	Interval  time.Duration `json:"interval"`
	Hour      int           `json:"hour"`
	Minute    int           `json:"minute"`
	CreatedAt time.Time     `json:"created_at"`
}

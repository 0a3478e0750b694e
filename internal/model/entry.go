package model

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a single logged message.
type Entry struct {
	ID      string    `json:"id" yaml:"id"`
	Time    time.Time `json:"time" yaml:"time"`
	Text    string    `json:"text" yaml:"text"`
	Comment *string   `json:"comment" yaml:"comment"`
}

// DayGroup holds the entries logged on one calendar day, oldest first.
type DayGroup struct {
	Date    time.Time `json:"date" yaml:"date"`
	Entries []Entry   `json:"entries" yaml:"entries"`
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

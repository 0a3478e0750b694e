package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/memex/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"1w", 7 * 24 * time.Hour},
		{"3d", 72 * time.Hour},
		{"1w2d6h", 9*24*time.Hour + 6*time.Hour},
		{" 90 minutes ", 90 * time.Minute},
		{"2H", 2 * time.Hour},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseAge(tt.input)
		if err != nil {
			t.Errorf("ParseAge(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAge(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseAgeInvalid(t *testing.T) {
	for _, input := range []string{"", "week", "3x", "0d", "-1d"} {
		if _, err := timecalc.ParseAge(input); err == nil {
			t.Errorf("ParseAge(%q): expected error", input)
		}
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{7 * 24 * time.Hour, "1w"},
		{9*24*time.Hour + 6*time.Hour, "1w2d6h"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := timecalc.FormatAge(tt.d); got != tt.want {
			t.Errorf("FormatAge(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestNextClock(t *testing.T) {
	now := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)

	if got, want := timecalc.NextClock(now, 21, 30), time.Date(2026, 2, 27, 21, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("NextClock later today = %v, want %v", got, want)
	}
	if got, want := timecalc.NextClock(now, 8, 0), time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("NextClock earlier today = %v, want %v", got, want)
	}
	if got, want := timecalc.NextClock(now, 10, 0), time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("NextClock exactly now = %v, want %v", got, want)
	}
}

func TestDayHeadingAndClock(t *testing.T) {
	ts := time.Date(2026, 2, 27, 8, 5, 0, 0, time.UTC)
	if got := timecalc.DayHeading(ts); got != "Friday, Feb 27" {
		t.Errorf("DayHeading = %q", got)
	}
	if got := timecalc.Clock(ts); got != "08:05" {
		t.Errorf("Clock = %q", got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

// Package codec converts log entries to and from their one-line text form:
//
//	<text> on <yyyy-mm-ddThh:mm:ss±hh:mm> [# <comment>]
//
// Both delimiters are resolved from the right, so a "#" or " on " inside the
// message body survives a round trip. A "#" inside the comment does not.
package codec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/memex/internal/model"
)

// TimeLayout is the on-disk timestamp format. The offset is always numeric.
const TimeLayout = "2006-01-02T15:04:05-07:00"

const (
	timeSeparator = " on "
	commentMarker = "#"
)

// ErrMalformedEntry is returned when a line cannot be decoded.
var ErrMalformedEntry = errors.New("malformed entry")

// Encode renders e as a single line without the trailing newline.
func Encode(e model.Entry) string {
	return EncodeParts(e.Text, e.Time, e.Comment)
}

// EncodeParts renders the given fields as a single line.
func EncodeParts(text string, t time.Time, comment *string) string {
	var b strings.Builder
	b.WriteString(text)
	b.WriteString(timeSeparator)
	b.WriteString(t.Truncate(time.Second).Format(TimeLayout))
	if comment != nil {
		b.WriteString(" " + commentMarker + " ")
		b.WriteString(*comment)
	}
	return b.String()
}

// Decode parses one line. The returned entry has no ID.
func Decode(line string) (model.Entry, error) {
	body, comment := ExtractComment(line)
	text, t, err := ExtractTime(body)
	if err != nil {
		return model.Entry{}, err
	}
	return model.Entry{Time: t, Text: text, Comment: comment}, nil
}

// ExtractComment splits raw at the rightmost "#". Everything after it,
// trimmed, is the comment; everything before it, trimmed, is the text. The
// comment is nil when raw holds no "#" at all, and empty when the marker is
// present with nothing after it.
func ExtractComment(raw string) (string, *string) {
	idx := strings.LastIndex(raw, commentMarker)
	if idx < 0 {
		return strings.TrimSpace(raw), nil
	}
	comment := strings.TrimSpace(raw[idx+len(commentMarker):])
	return strings.TrimSpace(raw[:idx]), &comment
}

// ExtractTime splits s at the rightmost " on " and parses the suffix as a
// timestamp.
func ExtractTime(s string) (string, time.Time, error) {
	idx := strings.LastIndex(s, timeSeparator)
	if idx < 0 {
		return "", time.Time{}, fmt.Errorf("%w: missing %q separator", ErrMalformedEntry, strings.TrimSpace(timeSeparator))
	}
	raw := strings.TrimSpace(s[idx+len(timeSeparator):])
	t, err := parseTime(raw)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: bad timestamp %q: %v", ErrMalformedEntry, raw, err)
	}
	text := strings.TrimSpace(s[:idx])
	if text == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty text", ErrMalformedEntry)
	}
	return text, t, nil
}

// parseTime accepts the canonical layout and, for files written by other
// tools, a "Z" suffix in place of +00:00.
func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, raw)
	if err == nil {
		return t, nil
	}
	if strings.HasSuffix(raw, "Z") {
		if tz, zerr := time.Parse("2006-01-02T15:04:05Z", raw); zerr == nil {
			return tz, nil
		}
	}
	return time.Time{}, err
}

// TextAndComment formats e the way a user would type it: the text, followed
// by " # comment" when a comment is present. Feeding the result back through
// ExtractComment yields the same text and comment.
func TextAndComment(e model.Entry) string {
	if e.Comment == nil {
		return e.Text
	}
	return e.Text + " " + commentMarker + " " + *e.Comment
}

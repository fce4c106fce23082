package repository

import (
	"time"
	"unicode/utf8"
)

// autoSaveLayout is fixed-width so auto-save keys sort chronologically.
const autoSaveLayout = "20060102T150405.000000000Z"

// autoSaveMarker separates the base key from the timestamp.
const autoSaveMarker = "_autosave_"

// storedTimeLayout is RFC3339 with fixed nanosecond precision, so stored
// timestamps order correctly as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime renders t for storage in UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// parseTime parses a stored timestamp, returning the zero time when the
// value is empty or malformed.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// charLen is the SQLite length() of s.
func charLen(s string) int {
	return utf8.RuneCountInString(s)
}

// ABOUTME: Core data models for daily log entries and query results.
// ABOUTME: Provides the DateKey value type, Entry rows, and per-query Result bundles.
package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateFormat is the canonical serialization of a DateKey.
const DateFormat = "2006-01-02"

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ErrInvalidDate is the sentinel wrapped by every InvalidDateError.
var ErrInvalidDate = errors.New("invalid date")

// InvalidDateError reports a date token that is empty or malformed.
type InvalidDateError struct {
	Token  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Token == "" {
		return e.Reason
	}
	return fmt.Sprintf("Invalid date %s, %s", e.Token, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidDate).
func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

// DateKey is a calendar date used as the storage lookup key.
// The zero value means "no date".
type DateKey struct {
	t time.Time
}

// ParseDateKey validates s as YYYY-MM-DD naming a real calendar day.
func ParseDateKey(s string) (DateKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateKey{}, &InvalidDateError{Reason: "empty date given"}
	}
	if !dateKeyPattern.MatchString(s) {
		return DateKey{}, &InvalidDateError{Token: s, Reason: "date must be in format YYYY-MM-DD"}
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return DateKey{}, &InvalidDateError{Token: s, Reason: "not a calendar date"}
	}
	return DateKey{t: t}, nil
}

// MustDateKey is ParseDateKey for literals known to be valid.
func MustDateKey(s string) DateKey {
	k, err := ParseDateKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// DateKeyFromTime returns the calendar date of t in t's own location.
func DateKeyFromTime(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateKeyFromInt reverses Int, e.g. 20240102 -> 2024-01-02.
func DateKeyFromInt(n int64) (DateKey, error) {
	s := fmt.Sprintf("%08d", n)
	if len(s) != 8 {
		return DateKey{}, &InvalidDateError{Token: s, Reason: "stored date must have 8 digits"}
	}
	return ParseDateKey(s[:4] + "-" + s[4:6] + "-" + s[6:])
}

// String returns the YYYY-MM-DD form, or "" for the zero value.
func (k DateKey) String() string {
	if k.t.IsZero() {
		return ""
	}
	return k.t.Format(DateFormat)
}

// Int returns the date with dashes stripped, as stored by the table backend.
func (k DateKey) Int() int64 {
	y, m, d := k.t.Date()
	return int64(y*10000 + int(m)*100 + d)
}

// AddDays returns the key n calendar days later (earlier for negative n).
func (k DateKey) AddDays(n int) DateKey {
	return DateKey{t: k.t.AddDate(0, 0, n)}
}

// IsZero reports whether k is the zero DateKey.
func (k DateKey) IsZero() bool {
	return k.t.IsZero()
}

// Entry is one logged line. ID is zero for backends without row identity.
type Entry struct {
	ID      int64
	Date    DateKey
	Content string
	Tag     string
}

// Line renders the entry as "id: content", with " [tag]" appended when tagged.
func (e Entry) Line() string {
	if e.Tag == "" {
		return fmt.Sprintf("%d: %s", e.ID, e.Content)
	}
	return fmt.Sprintf("%d: %s [%s]", e.ID, e.Content, e.Tag)
}

// Result bundles what a query found, any warnings, and the date actually used.
type Result struct {
	Items    []string
	Warnings []string
	Date     DateKey
}

// Warn appends a formatted warning.
func (r *Result) Warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

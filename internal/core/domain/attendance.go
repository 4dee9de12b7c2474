package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AttendanceStatus is the state recorded for a single calendar day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
)

func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// AttendanceEntry is one day of an employee's ledger. Date is always a UTC
// midnight.
type AttendanceEntry struct {
	Date   time.Time        `json:"date"           bson:"date"`
	Status AttendanceStatus `json:"status"         bson:"status"`
	Note   string           `json:"note,omitempty" bson:"note,omitempty"`
}

// Ledger holds at most one entry per calendar day. Storage order is not
// significant.
type Ledger []AttendanceEntry

// Day truncates t to its calendar day, keeping the day as seen in t's own
// location, and returns it as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate accepts a plain calendar date or a timestamp in one of the
// supported layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// Upsert returns a ledger where entry's day carries entry's status and note.
// An existing entry for the same day is replaced in place; otherwise entry is
// appended. The receiver is not modified.
func (l Ledger) Upsert(entry AttendanceEntry) Ledger {
	entry.Date = Day(entry.Date)
	out := make(Ledger, len(l), len(l)+1)
	copy(out, l)
	for i := range out {
		if Day(out[i].Date).Equal(entry.Date) {
			out[i] = entry
			return out
		}
	}
	return append(out, entry)
}

// Between returns the entries whose date falls in [start, end], sorted by
// date. A zero start means the epoch; a zero end means now.
func (l Ledger) Between(start, end time.Time) Ledger {
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	if end.IsZero() {
		end = time.Now().UTC()
	}
	out := make(Ledger, 0, len(l))
	for _, e := range l {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out.Sorted()
}

// Sorted returns a copy ordered by date ascending.
func (l Ledger) Sorted() Ledger {
	out := make(Ledger, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// HasPresent reports whether any day is marked Present.
func (l Ledger) HasPresent() bool {
	for _, e := range l {
		if e.Status == AttendancePresent {
			return true
		}
	}
	return false
}

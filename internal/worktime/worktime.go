// Package worktime computes the worked minutes of a daily report from its
// work entries.
//
// Entries carry wall-clock times without a date. Each one is anchored to the
// report's calendar day; an entry whose end is earlier than its start crossed
// midnight and ends on the following day.
package worktime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the length of a calendar day used for midnight wraparound.
const MinutesPerDay = 24 * 60

// Clock is a wall-clock time of day at minute granularity.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM". "HH:MM:SS" is accepted as well since that is how
// Postgres renders time columns; seconds are dropped.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Clock{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	hour, err := parseField(parts[0], 23)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: hour %w", s, err)
	}
	minute, err := parseField(parts[1], 59)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: minute %w", s, err)
	}
	if len(parts) == 3 {
		if _, err := parseField(parts[2], 59); err != nil {
			return Clock{}, fmt.Errorf("invalid time %q: second %w", s, err)
		}
	}

	return Clock{Hour: hour, Minute: minute}, nil
}

// MustParseClock is ParseClock for literals known to be valid.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseField(s string, max int) (int, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("must be two digits")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > max {
		return 0, fmt.Errorf("out of range 00-%02d", max)
	}
	return n, nil
}

// ClockFromMinutes builds a Clock from minutes since midnight.
func ClockFromMinutes(m int) Clock {
	m = ((m % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return Clock{Hour: m / 60, Minute: m % 60}
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On anchors the clock to the calendar day of date.
//
// Only the year, month and day of date are used and the result is in UTC, so
// a DST change on the report day never stretches or shrinks an entry.
func (c Clock) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, time.UTC)
}

// Entry is one labor interval within a report day.
type Entry struct {
	Start Clock
	End   Clock
}

// Wraps reports whether the entry crosses midnight.
func (e Entry) Wraps() bool {
	return e.End.Minutes() < e.Start.Minutes()
}

// EntryMinutes returns the whole minutes worked in a single entry.
// Equal start and end is a zero-length entry, not a full day.
func EntryMinutes(reportDate time.Time, e Entry) int {
	start := e.Start.On(reportDate)
	end := e.End.On(reportDate)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return int(end.Sub(start) / time.Minute)
}

// TotalMinutes sums EntryMinutes over entries. An empty slice totals 0.
func TotalMinutes(reportDate time.Time, entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += EntryMinutes(reportDate, e)
	}
	return total
}

// FormatMinutes renders a minute count as "8h 05m".
func FormatMinutes(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}

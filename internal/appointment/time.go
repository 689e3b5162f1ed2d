package appointment

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTime is returned when a time-of-day or duration cannot produce a valid instant.
var ErrMalformedTime = errors.New("time must be in HH:MM format")

// ParseTimeOfDay parses "HH:MM" into hour and minute.
// Single-digit hours ("9:05") are accepted; minutes must have two digits.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 || !isDigits(h) || !isDigits(m) {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return hour, minute, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatTimeOfDay formats the wall clock of t as "HH:MM".
func FormatTimeOfDay(t time.Time) string {
	return t.Format("15:04")
}

// ComputeStart builds an instant from the calendar date of date (in its location)
// and a "HH:MM" time-of-day. A wall clock that occurs twice, as in the repeated hour
// after a daylight-saving fall-back, resolves to the occurrence with date's UTC offset.
func ComputeStart(date time.Time, startTimeOfDay string) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(startTimeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return wallClock(date, hour, minute), nil
}

func wallClock(date time.Time, hour, minute int) time.Time {
	y, mo, d := date.Date()
	loc := date.Location()
	t := time.Date(y, mo, d, hour, minute, 0, 0, loc)

	_, want := date.Zone()
	if _, off := t.Zone(); off == want {
		return t
	}
	alt := time.Date(y, mo, d, hour, minute, 0, 0, time.UTC).
		Add(-time.Duration(want) * time.Second).
		In(loc)
	if _, off := alt.Zone(); off != want {
		return t
	}
	if ay, amo, ad := alt.Date(); ay != y || amo != mo || ad != d || alt.Hour() != hour || alt.Minute() != minute {
		return t
	}
	return alt
}

// ComputeEnd returns the start instant built from date and startTimeOfDay plus durationMinutes.
// A negative duration is reported as ErrMalformedTime.
func ComputeEnd(date time.Time, startTimeOfDay string, durationMinutes int) (time.Time, error) {
	if durationMinutes < 0 {
		return time.Time{}, fmt.Errorf("%w: negative duration %d", ErrMalformedTime, durationMinutes)
	}
	start, err := ComputeStart(date, startTimeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(durationMinutes) * time.Minute), nil
}

// DurationMinutes returns the whole minutes between start and end, rounded to nearest.
func DurationMinutes(start, end time.Time) int {
	return int(math.Round(float64(end.Sub(start)) / float64(time.Minute)))
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		today := TruncateToDay(time.Now())
		if !got.Equal(today) {
			t.Errorf("got %v, want %v", got, today)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("IST", 2*3600)
	start, end := DayBounds(time.Date(2025, 3, 14, 17, 45, 12, 0, loc))

	if !start.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, loc)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, loc)) {
		t.Errorf("end = %v", end)
	}
}

func TestParseRelativeDate(t *testing.T) {
	// Friday, 2025-03-14
	ref := time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		input   string
		want    time.Time
		wantErr error
	}{
		{"", day(14), nil},
		{"today", day(14), nil},
		{"TOMORROW", day(15), nil},
		{"yesterday", day(13), nil},
		{"monday", day(17), nil},
		{"friday", day(21), nil},
		{" Saturday ", day(15), nil},
		{"2025-03-01", day(1), nil},
		{"2025-03-20", day(20), nil},
		{"next-monday", time.Time{}, ErrInvalidDateFormat},
		{"14/03/2025", time.Time{}, ErrInvalidDateFormat},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseRelativeDate(tc.input, ref)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("got error %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

package appointment

import (
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	start := time.Date(2025, 1, 9, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		kind    Kind
		station string
		end     time.Time
		wantErr error
	}{
		{name: "valid grooming", kind: KindGrooming, station: "st-1", end: start.Add(30 * time.Minute)},
		{name: "valid daycare", kind: KindDaycare, station: "st-1", end: start.Add(8 * time.Hour)},
		{name: "bad kind", kind: "boarding", station: "st-1", end: start.Add(time.Hour), wantErr: ErrInvalidKind},
		{name: "no station", kind: KindGrooming, station: "", end: start.Add(time.Hour), wantErr: ErrStationNotFound},
		{name: "zero length", kind: KindGrooming, station: "st-1", end: start, wantErr: ErrEndBeforeStart},
		{name: "end before start", kind: KindGrooming, station: "st-1", end: start.Add(-time.Minute), wantErr: ErrEndBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.kind, tt.station, "Dana", start, tt.end)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if a.DurationMinutes != DurationMinutes(start, tt.end) {
				t.Errorf("DurationMinutes = %d, want %d", a.DurationMinutes, DurationMinutes(start, tt.end))
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Grooming "); err != nil || k != KindGrooming {
		t.Errorf("ParseKind(grooming) = %q, %v", k, err)
	}
	if k, err := ParseKind("daycare"); err != nil || k != KindDaycare {
		t.Errorf("ParseKind(daycare) = %q, %v", k, err)
	}
	if _, err := ParseKind("spa"); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("ParseKind(spa) error = %v, want ErrInvalidKind", err)
	}
}

func TestClone_DoesNotAlias(t *testing.T) {
	worker := "w-1"
	a := Appointment{ID: "a", WorkerID: &worker, Pets: []string{"Rex"}}

	c := a.Clone()
	*c.WorkerID = "w-2"
	c.Pets[0] = "Fido"

	if a.Worker() != "w-1" {
		t.Errorf("clone aliased worker id: %s", a.Worker())
	}
	if a.Pets[0] != "Rex" {
		t.Errorf("clone aliased pets: %v", a.Pets)
	}
}

func TestOverlapsWith(t *testing.T) {
	base := time.Date(2025, 1, 9, 10, 0, 0, 0, time.UTC)
	a := Appointment{StationID: "x", Start: base, End: base.Add(30 * time.Minute)}

	tests := []struct {
		name  string
		other Appointment
		want  bool
	}{
		{name: "same interval", other: a, want: true},
		{name: "touching end is free", other: Appointment{StationID: "x", Start: a.End, End: a.End.Add(time.Hour)}, want: false},
		{name: "touching start is free", other: Appointment{StationID: "x", Start: base.Add(-time.Hour), End: base}, want: false},
		{name: "partial", other: Appointment{StationID: "x", Start: base.Add(15 * time.Minute), End: base.Add(time.Hour)}, want: true},
		{name: "other station", other: Appointment{StationID: "y", Start: base, End: a.End}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.OverlapsWith(tt.other); got != tt.want {
				t.Errorf("OverlapsWith = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStringPtr(t *testing.T) {
	if StringPtr("") != nil {
		t.Error("empty string should map to nil")
	}
	if p := StringPtr("w-1"); p == nil || *p != "w-1" {
		t.Errorf("StringPtr(w-1) = %v", p)
	}
}

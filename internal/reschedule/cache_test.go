package reschedule

import (
	"testing"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

func TestCache_ImmutableUpdates(t *testing.T) {
	base := NewCache([]appointment.Appointment{testAppt("A", "X", at(10, 0), at(10, 30))})

	proposed := ApplyProposed(base, "A", at(10, 45), 45)

	orig, _ := base.Get("A")
	if !orig.End.Equal(at(10, 30)) {
		t.Errorf("base mutated: end = %v", orig.End)
	}
	got, _ := proposed.Get("A")
	if !got.End.Equal(at(10, 45)) || got.DurationMinutes != 45 {
		t.Errorf("proposed = %v/%d", got.End, got.DurationMinutes)
	}
	if got.StationID != "X" || !got.Start.Equal(at(10, 0)) || got.CustomerNotes != "likes treats" {
		t.Errorf("ApplyProposed touched other fields: %+v", got)
	}

	reverted := RevertToOriginal(proposed, "A", at(10, 30), 30)
	back, _ := reverted.Get("A")
	if !back.End.Equal(at(10, 30)) || back.DurationMinutes != 30 {
		t.Errorf("reverted = %v/%d", back.End, back.DurationMinutes)
	}
}

func TestCache_UnknownIDIsNoop(t *testing.T) {
	base := NewCache([]appointment.Appointment{testAppt("A", "X", at(10, 0), at(10, 30))})

	if c := ApplyProposed(base, "missing", at(12, 0), 60); c.Has("missing") || c.Len() != 1 {
		t.Error("ApplyProposed created an entry for an unknown id")
	}
	if c := RevertToOriginal(base, "missing", at(12, 0), 60); c.Has("missing") {
		t.Error("RevertToOriginal created an entry for an unknown id")
	}
	if c := ApplyCommitted(base, appointment.MoveRequest{AppointmentID: "missing"}); c.Has("missing") {
		t.Error("ApplyCommitted created an entry for an unknown id")
	}
}

func TestCache_GetReturnsCopy(t *testing.T) {
	w := "w-1"
	a := testAppt("A", "X", at(10, 0), at(10, 30))
	a.WorkerID = &w
	c := NewCache([]appointment.Appointment{a})

	// Caller memory must not leak into the cache.
	w = "w-2"
	a.Pets[0] = "Fido"

	got, _ := c.Get("A")
	if got.Worker() != "w-1" || got.Pets[0] != "Rex" {
		t.Errorf("cache aliased caller memory: %+v", got)
	}

	got.Pets[0] = "Max"
	again, _ := c.Get("A")
	if again.Pets[0] != "Rex" {
		t.Error("Get returned aliased slice")
	}
}

func TestCache_Ordering(t *testing.T) {
	c := NewCache([]appointment.Appointment{
		testAppt("C", "Y", at(11, 0), at(11, 30)),
		testAppt("B", "Y", at(10, 0), at(10, 30)),
		testAppt("A", "X", at(10, 0), at(10, 30)),
		testAppt("D", "X", at(9, 0), at(9, 30)),
	})

	var ids []string
	for _, a := range c.All() {
		ids = append(ids, a.ID)
	}
	want := []string{"D", "A", "B", "C"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}

	onY := c.OnStation("Y")
	if len(onY) != 2 || onY[0].ID != "B" || onY[1].ID != "C" {
		t.Errorf("OnStation(Y) = %v", onY)
	}
}

func TestApplyCommitted(t *testing.T) {
	w := "w-9"
	notes := "updated"
	base := NewCache([]appointment.Appointment{testAppt("A", "X", at(10, 0), at(10, 30))})

	c := ApplyCommitted(base, appointment.MoveRequest{
		AppointmentID: "A",
		NewStationID:  "Y",
		NewWorkerID:   &w,
		NewStart:      at(13, 0),
		NewEnd:        at(14, 15),
		InternalNotes: &notes,
	})

	got, _ := c.Get("A")
	if got.StationID != "Y" || got.Worker() != "w-9" {
		t.Errorf("placement = %s/%s", got.StationID, got.Worker())
	}
	if !got.Start.Equal(at(13, 0)) || !got.End.Equal(at(14, 15)) || got.DurationMinutes != 75 {
		t.Errorf("times = %v-%v (%d)", got.Start, got.End, got.DurationMinutes)
	}
	if got.InternalNotes != "updated" {
		t.Errorf("internal notes = %q", got.InternalNotes)
	}
	if got.CustomerNotes != "likes treats" || got.ServiceNotes != "short cut" {
		t.Error("nil note pointers should leave notes unchanged")
	}
}

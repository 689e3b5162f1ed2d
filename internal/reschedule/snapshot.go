// Package reschedule coordinates interactive appointment moves and resizes:
// optimistic preview in a local cache, atomic commit through the data service,
// and exact rollback on cancel or failure.
package reschedule

import (
	"time"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// Snapshot is an immutable copy of an appointment's placement taken before a tentative edit.
type Snapshot struct {
	AppointmentID   string
	StationID       string
	WorkerID        *string
	Start           time.Time
	End             time.Time
	DurationMinutes int
}

// SnapshotOf captures the placement fields of a.
func SnapshotOf(a appointment.Appointment) Snapshot {
	s := Snapshot{
		AppointmentID:   a.ID,
		StationID:       a.StationID,
		Start:           a.Start,
		End:             a.End,
		DurationMinutes: a.DurationMinutes,
	}
	if a.WorkerID != nil {
		w := *a.WorkerID
		s.WorkerID = &w
	}
	return s
}

// PendingResize tracks a resize gesture between its start and a commit or cancel.
// Original never changes once recorded; later gestures only replace the proposal.
type PendingResize struct {
	AppointmentID    string
	Original         Snapshot
	ProposedEnd      time.Time
	ProposedDuration int

	// Applied is true while the proposal is visible in the cache.
	// A failed commit reverts the cache but keeps the proposal for retry.
	Applied bool
}

// OriginalEnd returns the pre-resize end instant.
func (p PendingResize) OriginalEnd() time.Time {
	return p.Original.End
}

// OriginalDuration returns the pre-resize duration in minutes.
func (p PendingResize) OriginalDuration() int {
	return p.Original.DurationMinutes
}

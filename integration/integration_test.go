package integration

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/db"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/remote"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/reschedule"
)

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)

func at(hh, mm int) time.Time {
	return time.Date(2025, 3, 14, hh, mm, 0, 0, time.Local)
}

// openRepo creates a fresh repository for each test with automatic cleanup.
func openRepo(t *testing.T) *db.SQLite {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// seed creates stations X and Y, worker W, A at X 10:00-10:30 and B at Y 11:00-12:00.
func seed(t *testing.T, repo *db.SQLite) {
	t.Helper()
	ctx := context.Background()
	for _, st := range []*appointment.Station{{ID: "X", Name: "Table 1"}, {ID: "Y", Name: "Table 2"}} {
		if err := repo.CreateStation(ctx, st); err != nil {
			t.Fatalf("CreateStation failed: %v", err)
		}
	}
	if err := repo.CreateWorker(ctx, &appointment.Worker{ID: "W", Name: "Dana"}); err != nil {
		t.Fatalf("CreateWorker failed: %v", err)
	}
	for _, a := range []*appointment.Appointment{
		{ID: "A", Kind: appointment.KindGrooming, StationID: "X", CustomerName: "Noa", Pets: []string{"Rex"}, Start: at(10, 0), End: at(10, 30)},
		{ID: "B", Kind: appointment.KindDaycare, StationID: "Y", CustomerName: "Omer", Start: at(11, 0), End: at(12, 0)},
	} {
		if err := repo.CreateAppointment(ctx, a); err != nil {
			t.Fatalf("CreateAppointment failed: %v", err)
		}
	}
}

// serve exposes repo over HTTP and returns a client for it.
func serve(t *testing.T, repo *db.SQLite) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(remote.NewRouter(remote.RouterConfig{Service: repo}))
	t.Cleanup(srv.Close)
	client := remote.NewClient(srv.URL, 5*time.Second)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// console is one operator: a coordinator fed by a loop over a data service.
type console struct {
	t       *testing.T
	svc     appointment.Service
	coord   *reschedule.Coordinator
	loop    *reschedule.Loop
	results chan reschedule.Result
}

func openConsole(t *testing.T, svc appointment.Service) *console {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := &console{t: t, svc: svc, results: make(chan reschedule.Result, 8)}
	c.coord = reschedule.New(nil)
	c.loop = reschedule.NewLoop(c.coord, svc, reschedule.OnResult(func(_ *reschedule.Coordinator, _ reschedule.Event, res reschedule.Result) {
		c.results <- res
	}))
	go func() { _ = c.loop.Run(ctx) }()

	c.reload()
	return c
}

// do posts ev and waits for its result.
func (c *console) do(ev reschedule.Event) reschedule.Result {
	c.t.Helper()
	if err := c.loop.Post(context.Background(), ev); err != nil {
		c.t.Fatalf("Post failed: %v", err)
	}
	return c.next()
}

func (c *console) next() reschedule.Result {
	c.t.Helper()
	select {
	case res := <-c.results:
		return res
	case <-time.After(5 * time.Second):
		c.t.Fatal("timed out waiting for the loop")
		return reschedule.Result{}
	}
}

func (c *console) reload() {
	c.t.Helper()
	appts, err := c.svc.ListAppointments(context.Background(), day, day.AddDate(0, 0, 1))
	if err != nil {
		c.t.Fatalf("ListAppointments failed: %v", err)
	}
	c.do(reschedule.ScheduleLoaded{Appointments: appts})
}

// commit confirms the open editor and waits for the settlement.
func (c *console) commit() reschedule.Result {
	c.t.Helper()
	res := c.do(reschedule.ConfirmRequested{})
	if res.Err != nil {
		c.t.Fatalf("confirm failed: %v", res.Err)
	}
	if res.Commit == nil {
		c.t.Fatal("confirm did not start a commit")
	}
	return c.next()
}

func (c *console) cached(id string) appointment.Appointment {
	c.t.Helper()
	a, ok := c.coord.Cache().Get(id)
	if !ok {
		c.t.Fatalf("appointment %s not cached", id)
	}
	return a
}

func mustNoErr(t *testing.T, res reschedule.Result) {
	t.Helper()
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
}

func TestResizeAndMoveOverHTTP(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	c := openConsole(t, serve(t, repo))

	mustNoErr(t, c.do(reschedule.ResizeStarted{AppointmentID: "A", NewEnd: at(10, 45)}))
	if got := c.cached("A").End; !got.Equal(at(10, 45)) {
		t.Fatalf("optimistic end = %v, want 10:45", got)
	}

	mustNoErr(t, c.do(reschedule.EditOpened{AppointmentID: "A"}))
	mustNoErr(t, c.do(reschedule.FieldChanged{Field: reschedule.FieldStation, Value: "Y"}))
	mustNoErr(t, c.do(reschedule.FieldChanged{Field: reschedule.FieldStartTime, Value: "09:00"}))
	mustNoErr(t, c.do(reschedule.FieldChanged{Field: reschedule.FieldWorker, Value: "W"}))
	mustNoErr(t, c.do(reschedule.FieldChanged{Field: reschedule.FieldInternalNotes, Value: "bites"}))

	mustNoErr(t, c.commit())
	if c.coord.State() != reschedule.StateClosed {
		t.Errorf("state = %v, want closed", c.coord.State())
	}

	got, err := repo.GetAppointment(context.Background(), "A")
	if err != nil {
		t.Fatalf("GetAppointment failed: %v", err)
	}
	if got.StationID != "Y" || got.Worker() != "W" || got.InternalNotes != "bites" {
		t.Errorf("stored = %+v", got)
	}
	if !got.Start.Equal(at(9, 0)) || !got.End.Equal(at(9, 45)) {
		t.Errorf("stored times = %v-%v, want 09:00-09:45", got.Start, got.End)
	}

	cached := c.cached("A")
	if cached.StationID != "Y" || !cached.End.Equal(at(9, 45)) {
		t.Errorf("cache after commit = %+v", cached)
	}
}

func TestStaleConsoleGetsConflictAndRecovers(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	client := serve(t, repo)

	first := openConsole(t, client)
	second := openConsole(t, client)

	// First operator extends A.
	mustNoErr(t, first.do(reschedule.ResizeStarted{AppointmentID: "A", NewEnd: at(11, 0)}))
	mustNoErr(t, first.do(reschedule.EditOpened{AppointmentID: "A"}))
	mustNoErr(t, first.commit())

	// Second operator still sees 10:00-10:30 and tries to extend by 15 minutes.
	mustNoErr(t, second.do(reschedule.ResizeStarted{AppointmentID: "A", NewEnd: at(10, 45)}))
	mustNoErr(t, second.do(reschedule.EditOpened{AppointmentID: "A"}))
	res := second.commit()
	if !errors.Is(res.Err, appointment.ErrConflict) {
		t.Fatalf("err = %v, want conflict", res.Err)
	}
	if got := second.cached("A").End; !got.Equal(at(10, 30)) {
		t.Errorf("end after conflict = %v, want reverted 10:30", got)
	}
	if second.coord.State() != reschedule.StateEditing {
		t.Errorf("state = %v, want editing", second.coord.State())
	}

	// Cancel, reload, redo.
	mustNoErr(t, second.do(reschedule.CancelRequested{}))
	second.reload()
	if got := second.cached("A").End; !got.Equal(at(11, 0)) {
		t.Fatalf("reloaded end = %v, want 11:00", got)
	}
	mustNoErr(t, second.do(reschedule.ResizeStarted{AppointmentID: "A", NewEnd: at(11, 15)}))
	mustNoErr(t, second.do(reschedule.EditOpened{AppointmentID: "A"}))
	mustNoErr(t, second.commit())

	got, err := repo.GetAppointment(context.Background(), "A")
	if err != nil {
		t.Fatalf("GetAppointment failed: %v", err)
	}
	if !got.End.Equal(at(11, 15)) {
		t.Errorf("stored end = %v, want 11:15", got.End)
	}
}

func TestOverlapRejectedAndRolledBack(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	c := openConsole(t, repo)

	mustNoErr(t, c.do(reschedule.EditOpened{AppointmentID: "A"}))
	mustNoErr(t, c.do(reschedule.FieldChanged{Field: reschedule.FieldStation, Value: "Y"}))
	mustNoErr(t, c.do(reschedule.FieldChanged{Field: reschedule.FieldStartTime, Value: "11:15"}))

	res := c.commit()
	var failure *reschedule.CommitFailure
	if !errors.As(res.Err, &failure) || failure.Reason == "" {
		t.Fatalf("err = %v, want a commit failure with a reason", res.Err)
	}

	mustNoErr(t, c.do(reschedule.CancelRequested{}))
	a := c.cached("A")
	if a.StationID != "X" || !a.Start.Equal(at(10, 0)) || !a.End.Equal(at(10, 30)) {
		t.Errorf("cache after cancel = %+v", a)
	}

	stored, err := repo.GetAppointment(context.Background(), "A")
	if err != nil {
		t.Fatalf("GetAppointment failed: %v", err)
	}
	if stored.StationID != "X" || !stored.End.Equal(at(10, 30)) {
		t.Errorf("stored after rejection = %+v", stored)
	}
}

func TestDeleteHandoffOverHTTP(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	client := serve(t, repo)
	c := openConsole(t, client)

	mustNoErr(t, c.do(reschedule.EditOpened{AppointmentID: "B"}))
	res := c.do(reschedule.DeleteRequested{})
	if res.Delete == nil || res.Delete.Appointment.ID != "B" {
		t.Fatalf("delete handoff = %+v", res.Delete)
	}

	if err := client.DeleteAppointment(context.Background(), res.Delete.Appointment.ID); err != nil {
		t.Fatalf("DeleteAppointment failed: %v", err)
	}
	c.reload()
	if c.coord.Cache().Has("B") {
		t.Error("B still cached after delete and reload")
	}
}

func TestInstantsSurviveZones(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	ctx := context.Background()

	zone := time.FixedZone("UTC+3", 3*60*60)
	start := time.Date(2025, 3, 14, 16, 0, 0, 0, zone)
	a := &appointment.Appointment{
		Kind:         appointment.KindGrooming,
		StationID:    "X",
		CustomerName: "Tal",
		Start:        start,
		End:          start.Add(45 * time.Minute),
	}
	if err := repo.CreateAppointment(ctx, a); err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}

	got, err := serve(t, repo).GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment failed: %v", err)
	}
	if !got.Start.Equal(start) || got.DurationMinutes != 45 {
		t.Errorf("got %v (%d min), want %v (45 min)", got.Start, got.DurationMinutes, start)
	}
}

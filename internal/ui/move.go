package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/dateutil"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/reschedule"
)

func (a *App) moveCmd() *cobra.Command {
	var (
		date          string
		start         string
		station       string
		worker        string
		customerNotes string
		internalNotes string
		serviceNotes  string
	)

	cmd := &cobra.Command{
		Use:   "move <appointment-id>",
		Short: "Move an appointment to another day, time, station or worker",
		Long: `Move an appointment and commit the change through the data service.

Only the flags you pass are changed. The duration is kept, so the end time
follows the new start. Stations and workers accept an ID or a name;
--worker="" unassigns the worker.`,
		Example: `  barbery move 3f2a... --start=14:00
  barbery move 3f2a... --date=tomorrow --station="Table 2"
  barbery move 3f2a... --worker=Dana --internal-notes="nervous with dryers"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			ctx := context.Background()

			events := []reschedule.Event{reschedule.EditOpened{AppointmentID: args[0]}}
			flags := cmd.Flags()

			if flags.Changed("date") {
				day, err := dateutil.ParseRelativeDate(date, a.now())
				if err != nil {
					return err
				}
				events = append(events, reschedule.FieldChanged{Field: reschedule.FieldDate, Value: day.Format(dateutil.Layout)})
			}
			if flags.Changed("start") {
				events = append(events, reschedule.FieldChanged{Field: reschedule.FieldStartTime, Value: start})
			}
			if flags.Changed("station") {
				id, err := a.resolveStation(ctx, station)
				if err != nil {
					return err
				}
				events = append(events, reschedule.FieldChanged{Field: reschedule.FieldStation, Value: id})
			}
			if flags.Changed("worker") {
				id, err := a.resolveWorker(ctx, worker)
				if err != nil {
					return err
				}
				events = append(events, reschedule.FieldChanged{Field: reschedule.FieldWorker, Value: id})
			}
			if flags.Changed("customer-notes") {
				events = append(events, reschedule.FieldChanged{Field: reschedule.FieldCustomerNotes, Value: customerNotes})
			}
			if flags.Changed("internal-notes") {
				events = append(events, reschedule.FieldChanged{Field: reschedule.FieldInternalNotes, Value: internalNotes})
			}
			if flags.Changed("service-notes") {
				events = append(events, reschedule.FieldChanged{Field: reschedule.FieldServiceNotes, Value: serviceNotes})
			}
			if len(events) == 1 {
				return errors.New("nothing to change, pass at least one flag")
			}

			return a.commitEdit(ctx, cmd, args[0], events)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD or today/tomorrow/weekday)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&station, "station", "", "New station ID or name")
	cmd.Flags().StringVar(&worker, "worker", "", "New worker ID or name, empty to unassign")
	cmd.Flags().StringVar(&customerNotes, "customer-notes", "", "Replace the customer notes")
	cmd.Flags().StringVar(&internalNotes, "internal-notes", "", "Replace the internal notes")
	cmd.Flags().StringVar(&serviceNotes, "service-notes", "", "Replace the service notes")

	return cmd
}

func (a *App) resizeCmd() *cobra.Command {
	var end string

	cmd := &cobra.Command{
		Use:   "resize <appointment-id>",
		Short: "Change when an appointment ends",
		Example: `  barbery resize 3f2a... --end=11:15`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			ctx := context.Background()

			current, err := a.svc.GetAppointment(ctx, args[0])
			if err != nil {
				return fmt.Errorf("getting appointment: %w", err)
			}
			newEnd, err := appointment.ComputeStart(current.Start, end)
			if err != nil {
				return err
			}

			events := []reschedule.Event{
				reschedule.ResizeStarted{AppointmentID: current.ID, NewEnd: newEnd},
				reschedule.EditOpened{AppointmentID: current.ID},
			}
			return a.commitEdit(ctx, cmd, current.ID, events)
		},
	}

	cmd.Flags().StringVar(&end, "end", "", "New end time (HH:MM) on the same day")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// commitEdit runs one edit session through the coordinator loop: it replays
// events, confirms, and waits for the move to settle.
func (a *App) commitEdit(ctx context.Context, cmd *cobra.Command, id string, events []reschedule.Event) error {
	current, err := a.svc.GetAppointment(ctx, id)
	if err != nil {
		return fmt.Errorf("getting appointment: %w", err)
	}
	log, err := a.logger()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan reschedule.Result, 1)
	coord := reschedule.New([]appointment.Appointment{*current}, reschedule.WithLogger(log))
	loop := reschedule.NewLoop(coord, a.svc, reschedule.OnResult(func(_ *reschedule.Coordinator, _ reschedule.Event, res reschedule.Result) {
		results <- res
	}))
	go func() { _ = loop.Run(ctx) }()

	step := func(ev reschedule.Event) (reschedule.Result, error) {
		if err := loop.Post(ctx, ev); err != nil {
			return reschedule.Result{}, err
		}
		select {
		case res := <-results:
			return res, nil
		case <-ctx.Done():
			return reschedule.Result{}, ctx.Err()
		}
	}

	for _, ev := range append(events, reschedule.ConfirmRequested{}) {
		res, err := step(ev)
		if err != nil {
			return err
		}
		if res.Err != nil {
			return fmt.Errorf("editing appointment %s: %w", id, res.Err)
		}
	}

	// The confirm above started the move; its settlement is the next result.
	select {
	case res := <-results:
		if res.Err != nil {
			return fmt.Errorf("moving appointment %s: %w", id, res.Err)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	updated, ok := coord.Cache().Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", appointment.ErrAppointmentNotFound, id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatSuccess("Saved"), updated.Summary())
	return nil
}

package ui

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/dateutil"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/summary"
)

func (a *App) listCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a day's appointments by station",
		Long: `List the appointments of one day grouped by station.

The date accepts YYYY-MM-DD, today, tomorrow, yesterday or a weekday name
(the next occurrence). Defaults to today.`,
		Example: `  barbery list
  barbery list --date=tomorrow
  barbery list --date=2025-03-14`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := dateutil.ParseRelativeDate(date, a.now())
			if err != nil {
				return err
			}
			if err := a.ensureService(); err != nil {
				return err
			}

			ctx := context.Background()
			sum, err := summary.BuildDaySummary(ctx, a.svc, day)
			if err != nil {
				return fmt.Errorf("listing appointments: %w", err)
			}
			stations, err := a.svc.ListStations(ctx)
			if err != nil {
				return fmt.Errorf("listing stations: %w", err)
			}
			workers, err := a.svc.ListWorkers(ctx)
			if err != nil {
				return fmt.Errorf("listing workers: %w", err)
			}

			printDay(cmd.OutOrStdout(), sum, stations, workers, termWidth())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to list (defaults to today)")

	return cmd
}

// printDay prints one block per station followed by the day's stats.
// Appointments at unknown stations are listed last.
func printDay(w io.Writer, sum *summary.DaySummary, stations []appointment.Station, workers []appointment.Worker, width int) {
	fmt.Fprintf(w, "%s\n", formatHeader("=== "+sum.Day.Format("Mon 02 Jan 2006")+" ==="))
	if len(sum.Appointments) == 0 {
		fmt.Fprintln(w, "No appointments.")
		return
	}

	workerNames := make(map[string]string, len(workers))
	for _, wk := range workers {
		workerNames[wk.ID] = wk.Name
	}

	byStation := make(map[string][]appointment.Appointment)
	for _, ap := range sum.Appointments {
		byStation[ap.StationID] = append(byStation[ap.StationID], ap)
	}

	for _, st := range stations {
		list := byStation[st.ID]
		delete(byStation, st.ID)
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", formatHeader(st.Name))
		for _, ap := range list {
			fmt.Fprintln(w, formatRow(ap, workerNames, width))
		}
	}

	unknown := make([]string, 0, len(byStation))
	for stationID := range byStation {
		unknown = append(unknown, stationID)
	}
	sort.Strings(unknown)
	for _, stationID := range unknown {
		fmt.Fprintf(w, "\n%s\n", formatHeader(stationID+" (unknown station)"))
		for _, ap := range byStation[stationID] {
			fmt.Fprintln(w, formatRow(ap, workerNames, width))
		}
	}

	fmt.Fprintf(w, "\n%s\n", formatMuted(sum.Stats.Line()))
}

// formatRow renders "  HH:MM-HH:MM  [G]  customer (pets) · worker  id".
func formatRow(ap appointment.Appointment, workerNames map[string]string, width int) string {
	who := ap.CustomerName
	if len(ap.Pets) > 0 {
		who += " (" + strings.Join(ap.Pets, ", ") + ")"
	}
	if id := ap.Worker(); id != "" {
		name := workerNames[id]
		if name == "" {
			name = id
		}
		who += " · " + name
	}

	// "  HH:MM-HH:MM  [G]  " plus two spaces and the ID
	maxWho := width - 20 - 2 - len(ap.ID)
	if maxWho < 12 {
		maxWho = 12
	}
	who = ansi.Truncate(who, maxWho, "…")

	return fmt.Sprintf("  %s-%s  %s  %s  %s",
		appointment.FormatTimeOfDay(ap.Start),
		appointment.FormatTimeOfDay(ap.End),
		formatKind(ap.Kind),
		who,
		formatMuted(ap.ID),
	)
}

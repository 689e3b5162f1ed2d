package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

func (a *App) stationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stations",
		Short: "List stations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			stations, err := a.svc.ListStations(context.Background())
			if err != nil {
				return fmt.Errorf("listing stations: %w", err)
			}
			if len(stations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stations. Run `barbery seed` to create some.")
				return nil
			}
			for _, s := range stations {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %s\n", s.Name, formatMuted(s.ID))
			}
			return nil
		},
	}
}

func (a *App) workersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workers",
		Short: "List workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			workers, err := a.svc.ListWorkers(context.Background())
			if err != nil {
				return fmt.Errorf("listing workers: %w", err)
			}
			if len(workers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workers.")
				return nil
			}
			for _, w := range workers {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %s\n", w.Name, formatMuted(w.ID))
			}
			return nil
		},
	}
}

// resolveStation accepts a station ID or a case-insensitive name.
func (a *App) resolveStation(ctx context.Context, value string) (string, error) {
	stations, err := a.svc.ListStations(ctx)
	if err != nil {
		return "", fmt.Errorf("listing stations: %w", err)
	}
	for _, s := range stations {
		if s.ID == value || strings.EqualFold(s.Name, value) {
			return s.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", appointment.ErrStationNotFound, value)
}

// resolveWorker accepts a worker ID or a case-insensitive name. Empty means unassigned.
func (a *App) resolveWorker(ctx context.Context, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	workers, err := a.svc.ListWorkers(ctx)
	if err != nil {
		return "", fmt.Errorf("listing workers: %w", err)
	}
	for _, w := range workers {
		if w.ID == value || strings.EqualFold(w.Name, value) {
			return w.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", appointment.ErrWorkerNotFound, value)
}

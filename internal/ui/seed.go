package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/dateutil"
)

var (
	seedDurations = []int{30, 45, 60, 90}
	seedGaps      = []int{0, 0, 15, 30}
	seedNotes     = []string{"", "", "Sensitive skin", "Nervous with dryers", "Trim nails too", "Pick-up by partner"}
)

// SeedOptions controls how much demo data is generated.
type SeedOptions struct {
	Stations int
	Workers  int
	Days     int
	From     time.Time // first seeded day
}

// SeedStats reports what was created.
type SeedStats struct {
	Stations     int
	Workers      int
	Appointments int
}

func (a *App) seedCmd() *cobra.Command {
	var (
		opts SeedOptions
		date string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the local database with demo stations, workers and appointments",
		Example: `  barbery seed
  barbery seed --stations=4 --days=7 --date=monday`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := dateutil.ParseRelativeDate(date, a.now())
			if err != nil {
				return err
			}
			opts.From = from

			repo, err := a.ensureRepo()
			if err != nil {
				return err
			}

			gofakeit.Seed(time.Now().UnixNano())
			stats, err := Seed(context.Background(), repo, a.config.Schedule.DayStart, a.config.Schedule.DayEnd, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d stations, %d workers, %d appointments\n",
				formatSuccess("Seeded"), stats.Stations, stats.Workers, stats.Appointments)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Stations, "stations", 3, "Number of stations to create")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "Number of workers to create")
	cmd.Flags().IntVar(&opts.Days, "days", 1, "Number of days to fill")
	cmd.Flags().StringVar(&date, "date", "", "First day to fill (defaults to today)")

	return cmd
}

// Seed creates stations and workers, then fills every station from dayStart to
// dayEnd with back-to-back appointments separated by short random gaps.
func Seed(ctx context.Context, repo appointment.Repository, dayStart, dayEnd string, opts SeedOptions) (SeedStats, error) {
	var stats SeedStats
	if opts.Stations <= 0 || opts.Days <= 0 {
		return stats, errors.New("stations and days must be positive")
	}

	stations := make([]appointment.Station, 0, opts.Stations)
	for i := 1; i <= opts.Stations; i++ {
		st := appointment.Station{Name: fmt.Sprintf("Table %d", i)}
		if err := repo.CreateStation(ctx, &st); err != nil {
			return stats, fmt.Errorf("creating station: %w", err)
		}
		stations = append(stations, st)
		stats.Stations++
	}

	workers := make([]appointment.Worker, 0, opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		w := appointment.Worker{Name: gofakeit.FirstName()}
		if err := repo.CreateWorker(ctx, &w); err != nil {
			return stats, fmt.Errorf("creating worker: %w", err)
		}
		workers = append(workers, w)
		stats.Workers++
	}

	for d := 0; d < opts.Days; d++ {
		day := dateutil.TruncateToDay(opts.From).AddDate(0, 0, d)
		open, err := appointment.ComputeStart(day, dayStart)
		if err != nil {
			return stats, err
		}
		closing, err := appointment.ComputeStart(day, dayEnd)
		if err != nil {
			return stats, err
		}

		for _, st := range stations {
			cursor := open
			for {
				cursor = cursor.Add(time.Duration(pick(seedGaps)) * time.Minute)
				end := cursor.Add(time.Duration(pick(seedDurations)) * time.Minute)
				if end.After(closing) {
					break
				}
				ap := fakeAppointment(st.ID, workers, cursor, end)
				if err := repo.CreateAppointment(ctx, ap); err != nil {
					return stats, fmt.Errorf("creating appointment: %w", err)
				}
				stats.Appointments++
				cursor = end
			}
		}
	}

	return stats, nil
}

func fakeAppointment(stationID string, workers []appointment.Worker, start, end time.Time) *appointment.Appointment {
	kind := appointment.KindGrooming
	if gofakeit.Number(0, 3) == 0 {
		kind = appointment.KindDaycare
	}
	pets := []string{gofakeit.PetName()}
	if gofakeit.Number(0, 4) == 0 {
		pets = append(pets, gofakeit.PetName())
	}

	ap := &appointment.Appointment{
		Kind:          kind,
		StationID:     stationID,
		CustomerName:  gofakeit.Name(),
		Pets:          pets,
		Start:         start,
		End:           end,
		CustomerNotes: pick(seedNotes),
	}
	if len(workers) > 0 && gofakeit.Number(0, 4) > 0 {
		id := workers[gofakeit.Number(0, len(workers)-1)].ID
		ap.WorkerID = &id
	}
	return ap
}

func pick[T any](options []T) T {
	return options[gofakeit.Number(0, len(options)-1)]
}

// Package ui provides the barbery command line.
package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/config"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/db"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/logging"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/remote"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// ErrLocalOnly is returned by commands that write to the local store when a remote service is configured.
var ErrLocalOnly = errors.New("command needs local storage, unset remote.base_url")

// App holds the CLI application state.
type App struct {
	svc    appointment.Service
	config *config.Config
	root   *cobra.Command
	debug  bool // Enable debug logging
	log    *zap.Logger
	now    func() time.Time
}

// NewApp creates a new CLI application. A nil service is opened lazily from the config.
func NewApp(svc appointment.Service, cfg *config.Config) *App {
	a := &App{svc: svc, config: cfg, now: time.Now}

	a.root = &cobra.Command{
		Use:   "barbery",
		Short: "Appointment calendar for a pet grooming and daycare business",
		Long: `Barbery is a terminal console for the grooming and daycare calendar.

Run without a command to open the day calendar. Appointments can be
resized, moved between stations and reassigned, and every change is
confirmed by the data service before it sticks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			log, err := a.logger()
			if err != nil {
				return err
			}
			return tui.Run(a.svc, a.config, log)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to the log file")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.resizeCmd())
	a.root.AddCommand(a.stationsCmd())
	a.root.AddCommand(a.workersCmd())
	a.root.AddCommand(a.seedCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "barbery %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the data service and flushes the logger.
func (a *App) Close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.svc == nil {
		return nil
	}
	return a.svc.Close()
}

// ensureService opens the configured data service.
func (a *App) ensureService() error {
	if a.svc != nil {
		return nil
	}
	if a.config.UseRemote() {
		timeout, err := a.config.RemoteTimeout()
		if err != nil {
			return err
		}
		a.svc = remote.NewClient(a.config.Remote.BaseURL, timeout)
		return nil
	}
	repo, err := openRepo(a.config.Storage.DBPath)
	if err != nil {
		return err
	}
	a.svc = repo
	return nil
}

// ensureRepo opens the local store for commands that create records.
func (a *App) ensureRepo() (appointment.Repository, error) {
	if a.svc == nil && a.config.UseRemote() {
		return nil, ErrLocalOnly
	}
	if err := a.ensureService(); err != nil {
		return nil, err
	}
	repo, ok := a.svc.(appointment.Repository)
	if !ok {
		return nil, ErrLocalOnly
	}
	return repo, nil
}

func (a *App) logger() (*zap.Logger, error) {
	if a.log != nil {
		return a.log, nil
	}
	lc := a.config.Log
	if a.debug {
		lc.Debug = true
	}
	log, err := logging.New(lc)
	if err != nil {
		return nil, err
	}
	a.log = log
	return log, nil
}

func openRepo(dbPath string) (*db.SQLite, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return repo, nil
}

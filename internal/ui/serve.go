package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/logging"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/remote"
)

const shutdownTimeout = 10 * time.Second

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local database over HTTP",
		Long: `Serve the local SQLite calendar as the remote data service.

Other consoles point remote.base_url (or BARBERY_REMOTE_URL) at this
address and share one calendar.`,
		Example: `  barbery serve --addr=:8080`,
		RunE: func(_ *cobra.Command, _ []string) error {
			repo, err := a.ensureRepo()
			if err != nil {
				return err
			}
			log, err := logging.NewConsole(a.debug)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			srv := &http.Server{
				Addr:              addr,
				Handler:           remote.NewRouter(remote.RouterConfig{Service: repo, Logger: log, Version: Version}),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("serving calendar", zap.String("addr", addr), zap.String("db_path", a.config.Storage.DBPath))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serving: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}

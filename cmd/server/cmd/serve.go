package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fieldsync/internal/app/server/api"
	"fieldsync/internal/domain/session"
	"fieldsync/internal/infrastructure/cache"
	"fieldsync/internal/infrastructure/storage/postgres"
)

const (
	shutdownTimeout      = 10 * time.Second
	sessionPurgeInterval = time.Hour
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	storage, err := postgres.New(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer storage.Close()

	cursors, err := cache.NewCursorStore(cfg.Redis.URI, log)
	if err != nil {
		return fmt.Errorf("init cursor store: %w", err)
	}
	defer cursors.Close()

	mux := api.New(storage, cursors, log)

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	sessions := session.NewService(postgres.NewSessionRepository(storage, log), log)
	go purgeSessionsLoop(purgeCtx, sessions)

	srv := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", cfg.Server.RunAddress, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// purgeSessionsLoop drops expired sessions once at startup and then on every
// purge interval, until ctx is cancelled at shutdown.
func purgeSessionsLoop(ctx context.Context, sessions *session.Service) {
	purge := func() {
		if _, err := sessions.PurgeExpired(ctx); err != nil {
			log.Error("session purge failed", "error", err)
		}
	}
	purge()

	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purge()
		}
	}
}

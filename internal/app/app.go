// Package app initializes and runs the assistant's authentication
// subsystem: it prepares the config directory, loads or creates the
// symmetric key, opens the identity database, and drives the interactive
// shell alongside the periodic expired-session sweep.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mamishal/echoos/internal/auth"
	"github.com/mamishal/echoos/internal/cli"
	"github.com/mamishal/echoos/internal/config"
	"github.com/mamishal/echoos/internal/filex"
	"github.com/mamishal/echoos/internal/logging"
	"github.com/mamishal/echoos/internal/speech"
	"github.com/mamishal/echoos/internal/storage"
	"github.com/mamishal/echoos/internal/timex"
	"github.com/mamishal/echoos/internal/voice"
)

// errShutdown signals a user-requested exit from the shell so the run
// group can distinguish it from a failure.
var errShutdown = errors.New("shutdown requested")

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	service *auth.Service
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	if _, err := filex.EnsureDir(cfg.ConfigDir); err != nil {
		return nil, fmt.Errorf("config dir init error: %w", err)
	}

	key, err := auth.GetOrCreateKey(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("key init error: %w", err)
	}

	db, err := storage.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	service := auth.NewService(db, key,
		voice.UnavailableRecorder{}, voice.UnavailableEncoder{},
		speech.NewConsoleSpeaker(os.Stdout), timex.RealClock{}, logger,
		auth.Config{
			MatchThreshold:  cfg.MatchThreshold,
			SessionTimeout:  cfg.SessionTimeout,
			CaptureDuration: cfg.CaptureDuration,
			SampleRate:      cfg.SampleRate,
		})

	return &App{config: cfg, logger: logger, db: db, service: service}, nil
}

func (app *App) runCleanupLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := app.service.CleanupExpiredSessions(ctx)
			if err != nil {
				app.logger.Warn(ctx, "session cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				app.logger.Info(ctx, "expired sessions removed", "count", removed)
			}
		}
	}
}

// Run drives the shell and the cleanup sweep until the user exits or the
// process receives a termination signal.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.db.Close()

	app.logger.Info(ctx, "starting app")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.runCleanupLoop(ctx, app.config.CleanupInterval)
	})

	g.Go(func() error {
		cli.NewApp(app.service).Run(ctx)
		return errShutdown
	})

	err := g.Wait()
	if errors.Is(err, errShutdown) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

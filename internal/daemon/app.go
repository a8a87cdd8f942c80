// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuGH/wellcheck/internal/log"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ModelReloader is the part of model.Holder the App drives.
type ModelReloader interface {
	Reload() error
	Watch(ctx context.Context) error
}

// App owns the long-lived runtime lifecycle (model watcher, reload signal)
// and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	models       ModelReloader
	watch        bool
	reloadSignal os.Signal
}

// NewApp creates a new App orchestrator. With watch set the model file is
// reloaded on change; SIGHUP always triggers a reload.
func NewApp(logger zerolog.Logger, manager Manager, models ModelReloader, watch bool) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		models:       models,
		watch:        watch,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run starts all owned background subsystems and blocks until ctx is cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// The watcher is best-effort; the service runs without it.
	if a.models != nil && a.watch {
		if err := a.models.Watch(ctx); err != nil {
			a.logger.Warn().Err(err).Str(log.FieldEvent, "model.watcher_start_failed").Msg("failed to start model watcher")
		}
	}

	if a.models != nil && a.reloadSignal != nil {
		hupChan := make(chan os.Signal, 1)
		signal.Notify(hupChan, a.reloadSignal)

		g.Go(func() error {
			defer signal.Stop(hupChan)
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str(log.FieldEvent, "model.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading model")
					// Reload logs its own outcome.
					_ = a.models.Reload()
				}
			}
		})
	}

	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.WithoutCancel(ctx))
		}
		return err
	})

	return g.Wait()
}

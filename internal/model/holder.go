// SPDX-License-Identifier: MIT

package model

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ManuGH/wellcheck/internal/log"
	"github.com/ManuGH/wellcheck/internal/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const reloadDebounce = 500 * time.Millisecond

// Holder owns the active bundle and swaps it atomically on reload.
// A failed reload keeps serving the previous bundle.
type Holder struct {
	path    string
	current atomic.Pointer[Bundle]
	logger  zerolog.Logger

	// features, when positive, is the input width every bundle must accept.
	features int

	mu      sync.Mutex // serializes reloads
	lastErr error
}

// HolderOption configures a Holder.
type HolderOption func(*Holder)

// WithFeatureCount makes Reload reject bundles whose input width is not n.
func WithFeatureCount(n int) HolderOption {
	return func(h *Holder) { h.features = n }
}

// NewHolder creates a holder for the bundle at path. Nothing is loaded until
// Reload is called.
func NewHolder(path string, opts ...HolderOption) *Holder {
	h := &Holder{
		path:   path,
		logger: log.WithComponent("model"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Path returns the watched bundle path.
func (h *Holder) Path() string { return h.path }

// Current returns the active bundle or nil when none is loaded.
func (h *Holder) Current() *Bundle {
	return h.current.Load()
}

// LastError returns the error of the most recent reload attempt, if any.
func (h *Holder) LastError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

// Set installs b directly. Intended for tests and embedded use.
func (h *Holder) Set(b *Bundle) {
	h.current.Store(b)
	if b != nil {
		metrics.SetModelLoaded(true, b.Name, b.Classifier.Kind)
	} else {
		metrics.SetModelLoaded(false, "", "")
	}
}

// Reload loads the bundle from disk and swaps it in on success.
func (h *Holder) Reload() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, err := Load(h.path)
	if err == nil && h.features > 0 && b.NumFeatures() != h.features {
		err = invalidf("bundle expects %d features, requests carry %d", b.NumFeatures(), h.features)
	}
	h.lastErr = err
	if err != nil {
		metrics.RecordModelReload(reloadResult(err))
		evt := h.logger.Error()
		if h.current.Load() != nil {
			evt = h.logger.Warn().Bool("kept_previous", true)
		}
		evt.Err(err).
			Str(log.FieldEvent, "model.load_failed").
			Str(log.FieldModelPath, h.path).
			Msg("failed to load model bundle")
		return err
	}

	h.current.Store(b)
	metrics.RecordModelReload("success")
	metrics.SetModelLoaded(true, b.Name, b.Classifier.Kind)

	h.logger.Info().
		Str(log.FieldEvent, "model.loaded").
		Str(log.FieldModelPath, h.path).
		Str(log.FieldModelName, b.Name).
		Str(log.FieldClassifier, b.Classifier.Kind).
		Int(log.FieldFeatureCount, b.NumFeatures()).
		Str("checksum", b.checksum).
		Msg("model bundle loaded")
	return nil
}

func reloadResult(err error) string {
	switch {
	case errors.Is(err, ErrModelNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidBundle):
		return "invalid"
	default:
		return "error"
	}
}

// Watch reloads the bundle whenever its file changes, until ctx is done.
// The parent directory is watched so atomic rename-into-place updates are
// seen as well as in-place writes.
func (h *Holder) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	target := filepath.Clean(h.path)
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch model dir: %w", err)
	}

	h.logger.Info().
		Str(log.FieldEvent, "model.watcher_started").
		Str(log.FieldModelPath, target).
		Msg("watching model bundle for changes")

	go h.watchLoop(ctx, watcher, target)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string) {
	defer func() { _ = watcher.Close() }()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(log.FieldEvent, "model.watcher_stopped").Msg("model watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			h.logger.Debug().
				Str(log.FieldEvent, "model.file_changed").
				Str("op", event.Op.String()).
				Msg("model file changed")

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				if ctx.Err() != nil {
					return
				}
				_ = h.Reload()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str(log.FieldEvent, "model.watcher_error").
				Msg("model watcher error")
		}
	}
}

// Loaded returns the active bundle name and whether one is loaded.
func (h *Holder) Loaded() (string, bool) {
	b := h.current.Load()
	if b == nil {
		return "", false
	}
	return b.Name, true
}

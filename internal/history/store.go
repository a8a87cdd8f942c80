// SPDX-License-Identifier: MIT

// Package history keeps a log of completed assessments.
//
// Only the outcome of an assessment is stored. Questionnaire answers and
// feature values never leave the request.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

const (
	// DefaultLimit is used by Recent callers that do not ask for a size.
	DefaultLimit = 20
	// MaxLimit caps a single Recent call.
	MaxLimit = 200
)

// ErrUnknownBackend is returned by Open for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown history backend")

// Record is one stored assessment outcome.
type Record struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id,omitempty"`
	Score     int       `json:"score"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists records. Recent returns newest first.
type Store interface {
	Record(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open creates a Store for backend. Path is ignored by the memory and none
// backends.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendNone:
		return nopStore{}, nil
	case BackendMemory:
		return NewMemoryStore(0), nil
	case BackendSQLite:
		s, err := OpenSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendBadger:
		s, err := OpenBadgerStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}

// ClampLimit maps a requested limit into [1, MaxLimit], using DefaultLimit
// for non-positive values.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

type nopStore struct{}

func (nopStore) Record(context.Context, Record) error          { return nil }
func (nopStore) Recent(context.Context, int) ([]Record, error) { return []Record{}, nil }
func (nopStore) Close() error                                  { return nil }

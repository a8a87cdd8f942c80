// SPDX-License-Identifier: MIT

package history

import (
	"context"
	"sync"
)

const defaultMemoryCapacity = 1000

// MemoryStore keeps the most recent records in a fixed-size ring.
type MemoryStore struct {
	mu    sync.RWMutex
	buf   []Record
	next  int
	count int
}

// NewMemoryStore returns a ring buffer holding up to capacity records.
// A non-positive capacity selects the default of 1000.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryStore{buf: make([]Record, capacity)}
}

func (s *MemoryStore) Record(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf[s.next] = rec
	s.next = (s.next + 1) % len(s.buf)
	if s.count < len(s.buf) {
		s.count++
	}
	return nil
}

func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = ClampLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := min(limit, s.count)
	out := make([]Record, 0, n)
	for i := 1; i <= n; i++ {
		idx := (s.next - i + len(s.buf)) % len(s.buf)
		out = append(out, s.buf[idx])
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

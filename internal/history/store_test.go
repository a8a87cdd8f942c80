// SPDX-License-Identifier: MIT

package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(n int) []Record {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{
			ID:        fmt.Sprintf("rec-%03d", i),
			RequestID: fmt.Sprintf("req-%03d", i),
			Score:     i % 6,
			Status:    "Moderate Risk",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
	}
	return out
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	recs := sampleRecords(5)
	for _, r := range recs {
		require.NoError(t, s.Record(ctx, r))
	}

	got, err = s.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "rec-004", got[0].ID)
	assert.Equal(t, "rec-003", got[1].ID)
	assert.Equal(t, "rec-002", got[2].ID)
	assert.Equal(t, "req-004", got[0].RequestID)
	assert.Equal(t, 4, got[0].Score)
	assert.True(t, recs[4].CreatedAt.Equal(got[0].CreatedAt))

	got, err = s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(0)
	defer func() { _ = s.Close() }()
	testStore(t, s)
}

func TestMemoryStore_RingDropsOldest(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()
	for _, r := range sampleRecords(5) {
		require.NoError(t, s.Record(ctx, r))
	}

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"rec-004", "rec-003", "rec-002"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	s := NewMemoryStore(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Record(ctx, Record{ID: "x"}), context.Canceled)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "nested", "history.sqlite"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	testStore(t, s)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.sqlite")

	s, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), sampleRecords(1)[0]))
	require.NoError(t, s.Close())

	s, err = OpenSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rec-000", got[0].ID)
}

func TestBadgerStore(t *testing.T) {
	s, err := OpenBadgerStore(filepath.Join(t.TempDir(), "history.badger"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{"", BackendNone} {
		s, err := Open(backend, "")
		require.NoError(t, err)
		require.NoError(t, s.Record(context.Background(), Record{ID: "ignored"}))
		got, err := s.Recent(context.Background(), 5)
		require.NoError(t, err)
		assert.Empty(t, got)
		require.NoError(t, s.Close())
	}

	s, err := Open(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(BackendSQLite, filepath.Join(dir, "h.sqlite"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(BackendBadger, filepath.Join(dir, "h.badger"))
	require.NoError(t, err)
	assert.IsType(t, &BadgerStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open("postgres", "")
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(BackendSQLite, "")
	assert.Error(t, err)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-4))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxLimit, ClampLimit(MaxLimit+1))
}

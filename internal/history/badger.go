// SPDX-License-Identifier: MIT

package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

var recordPrefix = []byte("asmt:")

// BadgerStore keeps records under "asmt:<created-ns>:<id>" so key order is
// chronological.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens the badger directory at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	if path == "" {
		return nil, fmt.Errorf("badger history: path is required")
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger history: open: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func recordKey(rec Record) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", recordPrefix, rec.CreatedAt.UnixNano(), rec.ID))
}

func (s *BadgerStore) Record(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec), buf)
	})
}

func (s *BadgerStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	limit = ClampLimit(limit)
	out := make([]Record, 0, limit)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = recordPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the last key <= seek.
		seek := append(append([]byte(nil), recordPrefix...), 0xFF)
		for it.Seek(seek); it.Valid() && len(out) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger history: scan: %w", err)
	}
	return out, nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }

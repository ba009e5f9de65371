package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/pkg/db"
)

// fraudCountKey is the fixed key under which the running fraud-flag count is
// stored. There is exactly one counter for the whole ledger.
var fraudCountKey = makeKey(prefixFraudCount, nil)

// Fraud persists the one-shot per-watcher fraud flags and the running count of
// flagged watchers.
type Fraud struct {
	db.KVStore
}

// NewFraud creates a new fraud-flag store using KVStore
func NewFraud(db db.KVStore) *Fraud {
	return &Fraud{KVStore: db}
}

// HasFlag reports whether the watcher has already spent its fraud flag.
func (f *Fraud) HasFlag(watcher crypto.WatcherKey) (bool, error) {
	ok, err := f.Has(makeKey(prefixFraudFlag, watcher))
	if err != nil {
		return false, fmt.Errorf("get fraud flag: %w", err)
	}
	return ok, nil
}

// Count retrieves the number of watchers that have flagged fraud.
func (f *Fraud) Count() (uint64, error) {
	value, err := f.Get(fraudCountKey)
	if errors.Is(err, db.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get fraud count: %w", err)
	}
	return binary.LittleEndian.Uint64(value), nil
}

// MarkFlagged records the watcher's flag and increments the count in one
// atomic batch. Callers must check HasFlag first; marking the same watcher
// twice would double-count.
func (f *Fraud) MarkFlagged(watcher crypto.WatcherKey) error {
	count, err := f.Count()
	if err != nil {
		return err
	}

	value := make([]byte, 8)
	binary.LittleEndian.PutUint64(value, count+1)

	batch := f.NewBatch()
	defer batch.Close() //nolint:errcheck

	if err := batch.Put(makeKey(prefixFraudFlag, watcher), []byte{1}); err != nil {
		return fmt.Errorf("put fraud flag: %w", err)
	}
	if err := batch.Put(fraudCountKey, value); err != nil {
		return fmt.Errorf("put fraud count: %w", err)
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf(ErrFailedBatchCommit, err)
	}
	return nil
}

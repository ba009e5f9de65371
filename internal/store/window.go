package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/height"
	"github.com/persimmonlabs/optimist/pkg/db"
)

// Window persists the per-fingerprint challenge timers and, once a fingerprint
// finalizes, the height at which that happened.
type Window struct {
	db.KVStore
}

// NewWindow creates a new fraud-window store using KVStore
func NewWindow(db db.KVStore) *Window {
	return &Window{KVStore: db}
}

// PutTarget stores the finalization target height for a fingerprint.
func (w *Window) PutTarget(fingerprint crypto.Hash, target height.Height) error {
	value := make([]byte, 8)
	binary.LittleEndian.PutUint64(value, uint64(target))
	if err := w.Put(makeKey(prefixWindowTarget, fingerprint[:]), value); err != nil {
		return fmt.Errorf("put window target: %w", err)
	}
	return nil
}

// GetTarget retrieves the target height for a fingerprint. The second return
// reports whether an entry exists.
func (w *Window) GetTarget(fingerprint crypto.Hash) (height.Height, bool, error) {
	value, err := w.Get(makeKey(prefixWindowTarget, fingerprint[:]))
	if errors.Is(err, db.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get window target: %w", err)
	}
	return height.Height(binary.LittleEndian.Uint64(value)), true, nil
}

// ConsumeTarget clears the timer for a fingerprint and records the height at
// which it finalized, in one atomic batch.
func (w *Window) ConsumeTarget(fingerprint crypto.Hash, finalizedAt height.Height) error {
	value := make([]byte, 8)
	binary.LittleEndian.PutUint64(value, uint64(finalizedAt))

	batch := w.NewBatch()
	defer batch.Close() //nolint:errcheck

	if err := batch.Delete(makeKey(prefixWindowTarget, fingerprint[:])); err != nil {
		return fmt.Errorf("delete window target: %w", err)
	}
	if err := batch.Put(makeKey(prefixFinalizedAt, fingerprint[:]), value); err != nil {
		return fmt.Errorf("put finalized height: %w", err)
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf(ErrFailedBatchCommit, err)
	}
	return nil
}

// GetFinalizedAt retrieves the height at which a fingerprint finalized. The
// second return reports whether the fingerprint has finalized at all.
func (w *Window) GetFinalizedAt(fingerprint crypto.Hash) (height.Height, bool, error) {
	value, err := w.Get(makeKey(prefixFinalizedAt, fingerprint[:]))
	if errors.Is(err, db.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get finalized height: %w", err)
	}
	return height.Height(binary.LittleEndian.Uint64(value)), true, nil
}

package height

import (
	"sync"
	"time"
)

var now = time.Now

// Height is a monotonically increasing block height supplied by the host
// ledger. Two calls observing heights h1 and h2 with h1 <= h2 may assume the
// ledger never moved backwards in between.
type Height uint64

// Source supplies the current ledger height. Implementations must be
// non-decreasing across calls.
type Source interface {
	CurrentHeight() (Height, error)
}

// Manual is a Source whose height is advanced explicitly by the caller. It is
// used by tests and by hosts that push height updates instead of deriving them
// from time.
type Manual struct {
	mu sync.Mutex
	h  Height
}

func NewManual(start Height) *Manual {
	return &Manual{h: start}
}

func (m *Manual) CurrentHeight() (Height, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.h, nil
}

// Set moves the source to the given height. Moving backwards is rejected so a
// misbehaving caller cannot violate the monotonicity contract.
func (m *Manual) Set(h Height) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h < m.h {
		return ErrHeightRegression
	}
	m.h = h
	return nil
}

// Advance moves the source forward by delta heights.
func (m *Manual) Advance(delta Height) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.h += delta
}

// Wall derives the current height from the wall clock: one height unit per
// slot period elapsed since genesis.
type Wall struct {
	genesis    time.Time
	slotPeriod time.Duration
}

func NewWall(genesis time.Time, slotPeriod time.Duration) (*Wall, error) {
	if slotPeriod <= 0 {
		return nil, ErrInvalidSlotPeriod
	}
	return &Wall{genesis: genesis, slotPeriod: slotPeriod}, nil
}

func (w *Wall) CurrentHeight() (Height, error) {
	t := now()
	if t.Before(w.genesis) {
		return 0, ErrBeforeGenesis
	}
	return Height(t.Sub(w.genesis) / w.slotPeriod), nil
}

// Package window owns the per-fingerprint challenge timer: one durable entry
// per message fingerprint, born on first successful pre-verification and
// consumed by the verification that observes it elapsed.
package window

import (
	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/height"
	"github.com/persimmonlabs/optimist/internal/message"
	"github.com/persimmonlabs/optimist/internal/routing"
	"github.com/persimmonlabs/optimist/internal/safemath"
	"github.com/persimmonlabs/optimist/internal/store"
)

type ScheduleResult int

const (
	// Scheduled means a fresh timer was created for the fingerprint.
	Scheduled ScheduleResult = iota
	// AlreadyPending means a timer already existed and was left untouched.
	// Re-submission must never reset a running timer: resetting would let an
	// adversary delay finalization indefinitely by relaying the same message.
	AlreadyPending
)

type CheckResult int

const (
	// Elapsed means the timer had run out; the entry is now consumed.
	Elapsed CheckResult = iota
	// Pending means the target height has not been reached yet.
	Pending
	// Absent means no timer exists for the fingerprint.
	Absent
)

// Registry tracks fraud-window timers keyed by message fingerprint.
type Registry struct {
	store   *store.Window
	router  routing.Router
	heights height.Source
}

func NewRegistry(windowStore *store.Window, router routing.Router, heights height.Source) *Registry {
	return &Registry{
		store:   windowStore,
		router:  router,
		heights: heights,
	}
}

// Schedule starts the challenge timer for a fingerprint, fetching the fraud
// window duration applicable to the message. Scheduling an already-pending
// fingerprint is a no-op.
func (r *Registry) Schedule(fingerprint crypto.Hash, msg message.Message) (ScheduleResult, error) {
	_, exists, err := r.store.GetTarget(fingerprint)
	if err != nil {
		return 0, err
	}
	if exists {
		return AlreadyPending, nil
	}

	params, err := r.router.WatcherParameters(msg)
	if err != nil {
		return 0, err
	}
	current, err := r.heights.CurrentHeight()
	if err != nil {
		return 0, err
	}

	target, ok := safemath.Add64(uint64(current), uint64(params.FraudWindow))
	if !ok {
		// A target past the representable height range is a configuration
		// fault, never a wrap-around.
		return 0, safemath.ErrOverflow
	}

	if err := r.store.PutTarget(fingerprint, height.Height(target)); err != nil {
		return 0, err
	}
	return Scheduled, nil
}

// CheckAndConsume reports whether the fingerprint's window has elapsed. On
// Elapsed the entry is cleared in the same step, so a second call for the
// same lifecycle reports Absent.
func (r *Registry) CheckAndConsume(fingerprint crypto.Hash) (CheckResult, error) {
	target, exists, err := r.store.GetTarget(fingerprint)
	if err != nil {
		return 0, err
	}
	if !exists {
		return Absent, nil
	}

	current, err := r.heights.CurrentHeight()
	if err != nil {
		return 0, err
	}
	if current < target {
		return Pending, nil
	}

	if err := r.store.ConsumeTarget(fingerprint, current); err != nil {
		return 0, err
	}
	return Elapsed, nil
}

// TargetHeight returns the pending target height for a fingerprint, if any.
func (r *Registry) TargetHeight(fingerprint crypto.Hash) (height.Height, bool, error) {
	return r.store.GetTarget(fingerprint)
}

// FinalizedAt returns the height at which a fingerprint finalized, if it has.
func (r *Registry) FinalizedAt(fingerprint crypto.Hash) (height.Height, bool, error) {
	return r.store.GetFinalizedAt(fingerprint)
}

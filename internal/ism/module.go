// Package ism exposes the optimistic interchain-security module: delegated
// pre-verification, a durable per-message fraud window, and a watcher quorum
// that can veto finalization.
package ism

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/fraud"
	"github.com/persimmonlabs/optimist/internal/height"
	"github.com/persimmonlabs/optimist/internal/message"
	"github.com/persimmonlabs/optimist/internal/routing"
	"github.com/persimmonlabs/optimist/internal/window"
)

// ModuleTypeOptimistic is the module-type tag advertised to routing
// infrastructure so it can discover this as an optimistic verification
// module.
const ModuleTypeOptimistic uint8 = 8

// Module coordinates the three stages of optimistic verification. Every
// public entry point executes as one atomic step with respect to all shared
// state; the mutex mirrors the transaction atomicity of the host ledger.
type Module struct {
	mu      sync.Mutex
	router  routing.Router
	windows *window.Registry
	ledger  *fraud.Ledger
	log     zerolog.Logger
}

func New(router routing.Router, windows *window.Registry, ledger *fraud.Ledger, logger zerolog.Logger) *Module {
	return &Module{
		router:  router,
		windows: windows,
		ledger:  ledger,
		log:     logger,
	}
}

// delegateCheck resolves the checker authoritative for the message and
// requires it to accept the delegate sub-payload.
func (m *Module) delegateCheck(metadata message.Metadata, msg message.Message) error {
	checker, err := m.router.ResolveDelegate(msg)
	if err != nil {
		return fmt.Errorf("resolve delegate: %w", err)
	}
	payload, err := metadata.DelegatePayload()
	if err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}
	if err := checker.Verify(payload, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrDelegateVerificationFailed, err)
	}
	return nil
}

// PreVerify runs the delegate check and, on success, starts the fraud-window
// timer for the message fingerprint. Scheduling is idempotent: resubmitting a
// pending pair is a no-op, never a timer reset.
func (m *Module) PreVerify(metadata message.Metadata, msg message.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.delegateCheck(metadata, msg); err != nil {
		return err
	}

	fingerprint := message.Fingerprint(metadata, msg)
	result, err := m.windows.Schedule(fingerprint, msg)
	if err != nil {
		return err
	}
	m.log.Debug().
		Stringer("fingerprint", fingerprint).
		Bool("already_pending", result == window.AlreadyPending).
		Msg("message pre-verified")
	return nil
}

// Verify finalizes a message: the delegate must accept it, the fraud-flag
// count must be below the message's threshold, and its fraud window must have
// elapsed. All three must hold within this one call; a Pending window is the
// only failure the caller should retry. Verify commits no state on failure.
// In particular it never schedules a window, so a pair that was never
// pre-verified (or already finalized) is reported as absent.
func (m *Module) Verify(metadata message.Metadata, msg message.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.delegateCheck(metadata, msg); err != nil {
		return err
	}

	below, err := m.ledger.BelowThreshold(msg)
	if err != nil {
		return err
	}
	if !below {
		return ErrFraudThresholdExceeded
	}

	fingerprint := message.Fingerprint(metadata, msg)
	result, err := m.windows.CheckAndConsume(fingerprint)
	if err != nil {
		return err
	}
	switch result {
	case window.Pending:
		return ErrWindowNotElapsed
	case window.Absent:
		return ErrFingerprintAbsent
	}

	m.log.Info().
		Stringer("fingerprint", fingerprint).
		Msg("message finalized")
	return nil
}

// MarkFraudulent spends the watcher's one-shot fraud flag. Irreversible.
func (m *Module) MarkFraudulent(identity crypto.WatcherKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ledger.MarkFraudulent(identity); err != nil {
		return err
	}
	count, err := m.ledger.FraudulentCount()
	if err != nil {
		return err
	}
	m.log.Warn().
		Uint64("fraudulent_count", count).
		Msg("watcher flagged delegate as fraudulent")
	return nil
}

// VerifyFraudProof checks a threshold of watcher signatures over the message
// digest carried in the metadata signature section. It inspects no mutable
// state and changes none.
func (m *Module) VerifyFraudProof(metadata message.Metadata, msg message.Message) error {
	params, err := m.router.WatcherParameters(msg)
	if err != nil {
		return err
	}
	return fraud.VerifyFraudProof(metadata, msg, params)
}

// FinalizedAt reports the height at which a fingerprint finalized, if it has.
func (m *Module) FinalizedAt(fingerprint crypto.Hash) (height.Height, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.windows.FinalizedAt(fingerprint)
}

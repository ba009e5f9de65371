// Package fraud tracks which watchers have flagged a delegate checker as
// fraudulent and enforces the quorum that blocks finalization.
package fraud

import (
	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/message"
	"github.com/persimmonlabs/optimist/internal/routing"
	"github.com/persimmonlabs/optimist/internal/store"
)

// Ledger records one-shot fraud flags. Flags are never cleared: a watcher
// spends its single veto permanently, and the running count only grows.
type Ledger struct {
	store  *store.Fraud
	router routing.Router
}

func NewLedger(fraudStore *store.Fraud, router routing.Router) *Ledger {
	return &Ledger{
		store:  fraudStore,
		router: router,
	}
}

// IsWatcher reports whether the identity belongs to the watcher set the
// router derives for this message.
func (l *Ledger) IsWatcher(identity crypto.WatcherKey, msg message.Message) (bool, error) {
	params, err := l.router.WatcherParameters(msg)
	if err != nil {
		return false, err
	}
	return params.HasWatcher(identity), nil
}

// MarkFraudulent spends the watcher's one fraud flag. The identity must be
// recognized by at least one route the router serves; the flag ledger itself
// is global across messages.
func (l *Ledger) MarkFraudulent(identity crypto.WatcherKey) error {
	if !l.router.KnownWatcher(identity) {
		return ErrUnauthorized
	}
	flagged, err := l.store.HasFlag(identity)
	if err != nil {
		return err
	}
	if flagged {
		return ErrAlreadyFlagged
	}
	return l.store.MarkFlagged(identity)
}

// BelowThreshold reports whether the accumulated fraud-flag count is still
// below the threshold applicable to the message.
func (l *Ledger) BelowThreshold(msg message.Message) (bool, error) {
	params, err := l.router.WatcherParameters(msg)
	if err != nil {
		return false, err
	}
	count, err := l.store.Count()
	if err != nil {
		return false, err
	}
	return count < uint64(params.Threshold), nil
}

// FraudulentCount returns the number of watchers that have flagged fraud.
func (l *Ledger) FraudulentCount() (uint64, error) {
	return l.store.Count()
}

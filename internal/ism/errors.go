package ism

import (
	"errors"

	"github.com/persimmonlabs/optimist/internal/fraud"
)

var (
	// ErrDelegateVerificationFailed means the resolved checker rejected the
	// delegate sub-payload during PreVerify or Verify.
	ErrDelegateVerificationFailed = errors.New("delegate verification failed")
	// ErrFraudThresholdExceeded means the fraud-flag count reached the
	// watcher threshold, vetoing finalization.
	ErrFraudThresholdExceeded = errors.New("fraud threshold exceeded")
	// ErrWindowNotElapsed means the fraud window is still open. Retryable.
	ErrWindowNotElapsed = errors.New("fraud window not elapsed")
	// ErrFingerprintAbsent means Verify was called for a pair that was never
	// pre-verified, or that already finalized.
	ErrFingerprintAbsent = errors.New("fingerprint not pending")

	// ErrUnauthorized means the flagging identity is not a configured
	// watcher.
	ErrUnauthorized = fraud.ErrUnauthorized
	// ErrAlreadyFlagged means the watcher already spent its fraud flag.
	ErrAlreadyFlagged = fraud.ErrAlreadyFlagged
)

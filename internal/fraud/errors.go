package fraud

import "errors"

var (
	// ErrUnauthorized is returned when the caller of MarkFraudulent is not a
	// recognized watcher.
	ErrUnauthorized = errors.New("identity is not a recognized watcher")

	// ErrAlreadyFlagged is returned when a watcher attempts to flag fraud a
	// second time.
	ErrAlreadyFlagged = errors.New("watcher has already flagged fraud")

	// ErrInsufficientSignatures is returned when a fraud proof does not carry
	// a threshold of valid watcher signatures.
	ErrInsufficientSignatures = errors.New("fraud proof below signature threshold")
)

package routing

import (
	"crypto/ed25519"

	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/message"
)

// SignatureContextDelegate is prepended to the message digest before
// signature verification by the ed25519 delegate checker, separating delegate
// attestations from watcher fraud proofs.
const SignatureContextDelegate = "ism_delegate"

// Checker is the external delegate module invoked during pre-verification.
// Implementations must be idempotent and free of side effects observable by
// the verification core.
type Checker interface {
	// Verify accepts or rejects a message given its delegate sub-payload.
	Verify(subMetadata []byte, msg message.Message) error
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(subMetadata []byte, msg message.Message) error

func (f CheckerFunc) Verify(subMetadata []byte, msg message.Message) error {
	return f(subMetadata, msg)
}

// Ed25519Checker accepts a message when the delegate sub-payload carries a
// valid ed25519 signature by the configured attester over the domain-separated
// message digest.
type Ed25519Checker struct {
	attester ed25519.PublicKey
}

func NewEd25519Checker(attester ed25519.PublicKey) *Ed25519Checker {
	return &Ed25519Checker{attester: attester}
}

func (c *Ed25519Checker) Verify(subMetadata []byte, msg message.Message) error {
	if len(subMetadata) != crypto.Ed25519SignatureSize {
		return ErrBadAttestation
	}
	digest := msg.ID()
	signed := append([]byte(SignatureContextDelegate), digest[:]...)
	if !ed25519.Verify(c.attester, signed, subMetadata) {
		return ErrBadAttestation
	}
	return nil
}

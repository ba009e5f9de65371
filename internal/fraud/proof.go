package fraud

import (
	"crypto/ed25519"

	"github.com/persimmonlabs/optimist/internal/message"
	"github.com/persimmonlabs/optimist/internal/routing"
)

// SignatureContextFraud is prepended to the message digest before fraud-proof
// signature verification, separating watcher fraud attestations from delegate
// attestations.
const SignatureContextFraud = "ism_fraud"

// VerifyFraudProof checks that the metadata carries at least threshold watcher
// signatures over the domain-separated message digest. Signatures are consumed
// in order against a cursor into the ordered watcher list: each signature must
// match a watcher at or past the cursor, and matching advances the cursor, so
// a signature can never be counted twice.
func VerifyFraudProof(metadata message.Metadata, msg message.Message, params routing.Params) error {
	count, err := metadata.SignatureCount()
	if err != nil {
		return err
	}

	digest := msg.ID()
	signed := append([]byte(SignatureContextFraud), digest[:]...)

	matched := 0
	cursor := 0
	for i := 0; i < count && matched < int(params.Threshold); i++ {
		sig, err := metadata.SignatureAt(i)
		if err != nil {
			return err
		}
		for cursor < len(params.Watchers) && !ed25519.Verify(params.Watchers[cursor], signed, sig[:]) {
			cursor++
		}
		if cursor == len(params.Watchers) {
			// Cursor overran the watcher list before the quorum was met.
			return ErrInsufficientSignatures
		}
		matched++
		cursor++
	}

	if matched < int(params.Threshold) {
		return ErrInsufficientSignatures
	}
	return nil
}

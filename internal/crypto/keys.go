package crypto

import "crypto/ed25519"

type Ed25519Signature [Ed25519SignatureSize]byte

// WatcherKey identifies a watcher authorized to flag fraudulent delegate
// checkers. Watcher identities double as signature-verification keys for
// fraud proofs.
type WatcherKey = ed25519.PublicKey

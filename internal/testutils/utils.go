package testutils

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/message"
)

func RandomHash(t *testing.T) crypto.Hash {
	hash := make([]byte, crypto.HashSize)
	_, err := rand.Read(hash)
	require.NoError(t, err)
	return crypto.Hash(hash)
}

func RandomED25519PublicKey(t *testing.T) ed25519.PublicKey {
	key := make([]byte, ed25519.PublicKeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func RandomED25519Keys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	pub, prv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub, prv
}

func RandomEd25519Signature(t *testing.T) crypto.Ed25519Signature {
	var sig crypto.Ed25519Signature
	_, err := rand.Read(sig[:])
	require.NoError(t, err)
	return sig
}

// RandomMessage builds a well-formed message with the given origin domain and
// a random body.
func RandomMessage(t *testing.T, origin uint32) message.Message {
	body := make([]byte, 32)
	_, err := rand.Read(body)
	require.NoError(t, err)
	return message.EncodeMessage(1, 0, origin, [message.AddressSize]byte{}, 0, [message.AddressSize]byte{}, body)
}

package gateway

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfSignedCertificate(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err, "Failed to generate Ed25519 key pair")

	cert, err := SelfSignedCertificate(pub, priv, 24*time.Hour)
	require.NoError(t, err, "Failed to generate certificate")
	require.NotNil(t, cert.Leaf)

	assert.NoError(t, NewValidator().ValidateCertificate(cert.Leaf), "Valid certificate failed validation")
}

func TestValidateCertificateRejectsMismatchedDNSName(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	otherPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	cert, err := SelfSignedCertificate(pub, priv, 24*time.Hour)
	require.NoError(t, err)

	// Swap the DNS name for one derived from a different key.
	cert.Leaf.DNSNames = []string{EncodeKeyToDNS(otherPub)}

	err = NewValidator().ValidateCertificate(cert.Leaf)
	assert.ErrorContains(t, err, "DNS name does not match public key")
}

func TestValidateCertificateRejectsExpired(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	cert, err := SelfSignedCertificate(pub, priv, -time.Hour)
	require.NoError(t, err)

	err = NewValidator().ValidateCertificate(cert.Leaf)
	assert.ErrorContains(t, err, "expired")
}

func TestExtractPublicKeyRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	cert, err := SelfSignedCertificate(pub, priv, 24*time.Hour)
	require.NoError(t, err)

	extracted, err := NewValidator().ExtractPublicKey(cert.Leaf)
	require.NoError(t, err)
	assert.Equal(t, pub, extracted)
}

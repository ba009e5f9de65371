package routing

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/testutils"
)

func TestStaticRouter(t *testing.T) {
	watcher := testutils.RandomED25519PublicKey(t)
	checker := NewCheckerMock()
	router := NewStaticRouter(checker, Params{
		Watchers:    []crypto.WatcherKey{watcher},
		Threshold:   2,
		FraudWindow: 10,
	})

	msg := testutils.RandomMessage(t, 1000)

	resolved, err := router.ResolveDelegate(msg)
	require.NoError(t, err)
	assert.Equal(t, checker, resolved)

	params, err := router.WatcherParameters(msg)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), params.Threshold)
	assert.Equal(t, uint32(10), params.FraudWindow)

	assert.True(t, router.KnownWatcher(watcher))
	assert.False(t, router.KnownWatcher(testutils.RandomED25519PublicKey(t)))
}

func TestStaticRouterNoChecker(t *testing.T) {
	router := NewStaticRouter(nil, Params{})
	_, err := router.ResolveDelegate(testutils.RandomMessage(t, 1))
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestDomainRouter(t *testing.T) {
	watcherA := testutils.RandomED25519PublicKey(t)
	watcherB := testutils.RandomED25519PublicKey(t)
	checkerA := NewCheckerMock()
	checkerB := NewCheckerMock()

	router := NewDomainRouter(map[uint32]Route{
		1000: {Checker: checkerA, Params: Params{Watchers: []crypto.WatcherKey{watcherA}, Threshold: 1, FraudWindow: 5}},
		2000: {Checker: checkerB, Params: Params{Watchers: []crypto.WatcherKey{watcherB}, Threshold: 3, FraudWindow: 20}},
	})

	msg := testutils.RandomMessage(t, 2000)
	resolved, err := router.ResolveDelegate(msg)
	require.NoError(t, err)
	assert.Equal(t, checkerB, resolved)

	params, err := router.WatcherParameters(msg)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), params.Threshold)

	_, err = router.ResolveDelegate(testutils.RandomMessage(t, 3000))
	assert.ErrorIs(t, err, ErrNoRoute)

	// Watchers from every route are recognized, regardless of message scope.
	assert.True(t, router.KnownWatcher(watcherA))
	assert.True(t, router.KnownWatcher(watcherB))
	assert.False(t, router.KnownWatcher(testutils.RandomED25519PublicKey(t)))
}

func TestEd25519Checker(t *testing.T) {
	pub, prv := testutils.RandomED25519Keys(t)
	checker := NewEd25519Checker(pub)
	msg := testutils.RandomMessage(t, 1)

	digest := msg.ID()
	sig := ed25519.Sign(prv, append([]byte(SignatureContextDelegate), digest[:]...))

	require.NoError(t, checker.Verify(sig, msg))

	// Tampered signature.
	bad := append([]byte(nil), sig...)
	bad[0] ^= 0xff
	assert.ErrorIs(t, checker.Verify(bad, msg), ErrBadAttestation)

	// Wrong length payload.
	assert.ErrorIs(t, checker.Verify(sig[:10], msg), ErrBadAttestation)

	// Signature over a different message.
	other := testutils.RandomMessage(t, 1)
	assert.ErrorIs(t, checker.Verify(sig, other), ErrBadAttestation)
}

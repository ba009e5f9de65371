package fraud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/routing"
	"github.com/persimmonlabs/optimist/internal/store"
	"github.com/persimmonlabs/optimist/internal/testutils"
	"github.com/persimmonlabs/optimist/pkg/db/pebble"
)

func newTestLedger(t *testing.T, watchers []crypto.WatcherKey, threshold uint8) *Ledger {
	db, err := pebble.NewKVStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close(), "failed to close db")
	})

	router := routing.NewStaticRouter(routing.NewCheckerMock(), routing.Params{
		Watchers:  watchers,
		Threshold: threshold,
	})
	return NewLedger(store.NewFraud(db), router)
}

func TestIsWatcher(t *testing.T) {
	watcher := testutils.RandomED25519PublicKey(t)
	ledger := newTestLedger(t, []crypto.WatcherKey{watcher}, 1)
	msg := testutils.RandomMessage(t, 1)

	ok, err := ledger.IsWatcher(watcher, msg)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.IsWatcher(testutils.RandomED25519PublicKey(t), msg)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkFraudulentUnauthorized(t *testing.T) {
	ledger := newTestLedger(t, []crypto.WatcherKey{testutils.RandomED25519PublicKey(t)}, 1)

	err := ledger.MarkFraudulent(testutils.RandomED25519PublicKey(t))
	assert.ErrorIs(t, err, ErrUnauthorized)

	count, err := ledger.FraudulentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestMarkFraudulentIsOneShot(t *testing.T) {
	watcher := testutils.RandomED25519PublicKey(t)
	ledger := newTestLedger(t, []crypto.WatcherKey{watcher}, 2)

	require.NoError(t, ledger.MarkFraudulent(watcher))

	err := ledger.MarkFraudulent(watcher)
	assert.ErrorIs(t, err, ErrAlreadyFlagged)

	count, err := ledger.FraudulentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count, "double flag must not change the count")
}

func TestQuorumMonotonicity(t *testing.T) {
	watchers := []crypto.WatcherKey{
		testutils.RandomED25519PublicKey(t),
		testutils.RandomED25519PublicKey(t),
		testutils.RandomED25519PublicKey(t),
	}
	ledger := newTestLedger(t, watchers, 2)
	msg := testutils.RandomMessage(t, 1)

	for i, watcher := range watchers {
		below, err := ledger.BelowThreshold(msg)
		require.NoError(t, err)
		assert.Equal(t, i < 2, below, "threshold must be crossed at exactly the threshold count")

		require.NoError(t, ledger.MarkFraudulent(watcher))

		count, err := ledger.FraudulentCount()
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), count)
	}

	below, err := ledger.BelowThreshold(msg)
	require.NoError(t, err)
	assert.False(t, below)
}

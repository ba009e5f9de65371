package pebble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persimmonlabs/optimist/pkg/db"
)

func TestKVStore(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store db.KVStore)
	}{
		{
			name: "basic_put_get",
			fn:   testBasicPutGet,
		},
		{
			name: "has",
			fn:   testHas,
		},
		{
			name: "delete_operations",
			fn:   testDelete,
		},
		{
			name: "batch_commit",
			fn:   testBatchCommit,
		},
		{
			name: "iterator_range",
			fn:   testIteratorRange,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, err := NewKVStore()
			require.NoError(t, err)
			defer store.Close()

			tc.fn(t, store)
		})
	}
}

func testBasicPutGet(t *testing.T, store db.KVStore) {
	key := []byte("test-key")
	value := []byte("test-value")

	err := store.Put(key, value)
	require.NoError(t, err)

	retrieved, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, retrieved)

	// Test non-existent key
	_, err = store.Get([]byte("non-existent"))
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func testHas(t *testing.T, store db.KVStore) {
	key := []byte("present")

	ok, err := store.Has(key)
	require.NoError(t, err)
	assert.False(t, ok)

	err = store.Put(key, []byte("v"))
	require.NoError(t, err)

	ok, err = store.Has(key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func testDelete(t *testing.T, store db.KVStore) {
	key := []byte("delete-test")

	err := store.Put(key, []byte("to-be-deleted"))
	require.NoError(t, err)

	err = store.Delete(key)
	require.NoError(t, err)

	_, err = store.Get(key)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func testBatchCommit(t *testing.T, store db.KVStore) {
	batch := store.NewBatch()
	defer batch.Close()

	require.NoError(t, batch.Put([]byte("a"), []byte("1")))
	require.NoError(t, batch.Put([]byte("b"), []byte("2")))
	require.NoError(t, batch.Delete([]byte("a")))

	// Nothing visible before commit.
	_, err := store.Get([]byte("b"))
	assert.ErrorIs(t, err, db.ErrNotFound)

	require.NoError(t, batch.Commit())

	_, err = store.Get([]byte("a"))
	assert.ErrorIs(t, err, db.ErrNotFound)
	v, err := store.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)

	// A committed batch rejects further use.
	assert.ErrorIs(t, batch.Put([]byte("c"), []byte("3")), ErrBatchDone)
	assert.ErrorIs(t, batch.Commit(), ErrBatchDone)
}

func testIteratorRange(t *testing.T, store db.KVStore) {
	require.NoError(t, store.Put([]byte{1, 0}, []byte("a")))
	require.NoError(t, store.Put([]byte{1, 1}, []byte("b")))
	require.NoError(t, store.Put([]byte{2, 0}, []byte("c")))

	iter, err := store.NewIterator([]byte{1}, []byte{2})
	require.NoError(t, err)
	defer iter.Close()

	var values []string
	for iter.Next() {
		v, err := iter.Value()
		require.NoError(t, err)
		values = append(values, string(v))
	}
	assert.Equal(t, []string{"a", "b"}, values)
}

func TestStoreClosure(t *testing.T) {
	store, err := NewKVStore()
	require.NoError(t, err)

	require.NoError(t, store.Close())
	// Closing twice is a no-op.
	require.NoError(t, store.Close())

	_, err = store.Get([]byte("k"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Put([]byte("k"), []byte("v")), ErrClosed)
	assert.ErrorIs(t, store.Delete([]byte("k")), ErrClosed)
}

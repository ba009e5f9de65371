package height

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualSource(t *testing.T) {
	src := NewManual(100)

	h, err := src.CurrentHeight()
	require.NoError(t, err)
	assert.Equal(t, Height(100), h)

	src.Advance(10)
	h, err = src.CurrentHeight()
	require.NoError(t, err)
	assert.Equal(t, Height(110), h)

	err = src.Set(105)
	assert.ErrorIs(t, err, ErrHeightRegression)

	err = src.Set(200)
	require.NoError(t, err)
	h, err = src.CurrentHeight()
	require.NoError(t, err)
	assert.Equal(t, Height(200), h)
}

func TestWallSource(t *testing.T) {
	genesis := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	w, err := NewWall(genesis, 6*time.Second)
	require.NoError(t, err)

	defer func() { now = time.Now }()

	now = func() time.Time { return genesis.Add(60 * time.Second) }
	h, err := w.CurrentHeight()
	require.NoError(t, err)
	assert.Equal(t, Height(10), h)

	// Partial slots round down.
	now = func() time.Time { return genesis.Add(65 * time.Second) }
	h, err = w.CurrentHeight()
	require.NoError(t, err)
	assert.Equal(t, Height(10), h)

	now = func() time.Time { return genesis.Add(-time.Second) }
	_, err = w.CurrentHeight()
	assert.ErrorIs(t, err, ErrBeforeGenesis)
}

func TestWallSourceInvalidSlotPeriod(t *testing.T) {
	_, err := NewWall(time.Now(), 0)
	assert.ErrorIs(t, err, ErrInvalidSlotPeriod)
}

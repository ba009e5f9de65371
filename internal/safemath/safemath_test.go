package safemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd64(t *testing.T) {
	v, ok := Add64(1, 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), v)

	_, ok = Add64(math.MaxUint64, 1)
	assert.False(t, ok)

	v, ok = Add64(math.MaxUint64, 0)
	assert.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64), v)
}

func TestAdd32(t *testing.T) {
	v, ok := Add32(1, 2)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), v)

	_, ok = Add32(math.MaxUint32, 1)
	assert.False(t, ok)
}

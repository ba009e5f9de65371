package gateway

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persimmonlabs/optimist/internal/fraud"
	"github.com/persimmonlabs/optimist/internal/ism"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("optimistic payload")

	require.NoError(t, writeFrame(context.Background(), &buf, payload))

	got, err := readFrame(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFrameRoundTripEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFrame(context.Background(), &buf, nil))

	got, err := readFrame(context.Background(), &buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadFrameRejectsOversized(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(maxFrameSize+1)))

	_, err := readFrame(context.Background(), &buf)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestReadFrameTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(10)))
	buf.Write([]byte("short"))

	_, err := readFrame(context.Background(), &buf)
	assert.ErrorContains(t, err, "failed to read frame payload")
}

func TestReadFrameCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never produces data; only the context can end the read.
	r, w := io.Pipe()
	t.Cleanup(func() {
		require.NoError(t, w.Close())
	})
	_, err := readFrame(ctx, r)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultCodes(t *testing.T) {
	for _, want := range []error{
		nil,
		ism.ErrDelegateVerificationFailed,
		ism.ErrFraudThresholdExceeded,
		ism.ErrWindowNotElapsed,
		ism.ErrFingerprintAbsent,
		ism.ErrUnauthorized,
		ism.ErrAlreadyFlagged,
		fraud.ErrInsufficientSignatures,
	} {
		got := decodeResult(encodeResult(want))
		if want == nil {
			assert.NoError(t, got)
			continue
		}
		assert.ErrorIs(t, got, want)
	}
}

func TestResultInternalCarriesDetail(t *testing.T) {
	got := decodeResult(encodeResult(errors.New("pebble: corrupted sstable")))
	assert.ErrorIs(t, got, ErrRemoteFailure)
	assert.ErrorContains(t, got, "pebble: corrupted sstable")
}

func TestResultMalformed(t *testing.T) {
	assert.ErrorIs(t, decodeResult(nil), ErrMalformedResponse)
	assert.ErrorIs(t, decodeResult([]byte{0xfe}), ErrMalformedResponse)
}

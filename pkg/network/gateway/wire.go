package gateway

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/persimmonlabs/optimist/internal/fraud"
	"github.com/persimmonlabs/optimist/internal/ism"
)

// Stream kinds. The first byte of every stream selects the operation; the
// operation's frames follow.
const (
	kindPreVerify byte = iota
	kindVerify
	kindMarkFraudulent
	kindFraudProof
)

// maxFrameSize bounds a single frame so a peer cannot make the gateway
// allocate unbounded memory.
const maxFrameSize = 1 << 20

// writeFrame writes a length-prefixed frame: a little-endian uint32 payload
// size followed by the payload. The write can be cancelled via the context.
func writeFrame(ctx context.Context, w io.Writer, payload []byte) error {
	done := make(chan error, 1)
	go func() {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(payload))); err != nil {
			done <- fmt.Errorf("failed to write frame size: %w", err)
			return
		}
		if _, err := w.Write(payload); err != nil {
			done <- fmt.Errorf("failed to write frame payload: %w", err)
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readFrame reads one length-prefixed frame, rejecting oversized payloads.
// The read can be cancelled via the context.
func readFrame(ctx context.Context, r io.Reader) ([]byte, error) {
	type result struct {
		payload []byte
		err     error
	}
	done := make(chan result, 1)
	go func() {
		var size uint32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			done <- result{nil, fmt.Errorf("failed to read frame size: %w", err)}
			return
		}
		if size > maxFrameSize {
			done <- result{nil, ErrFrameTooLarge}
			return
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			done <- result{nil, fmt.Errorf("failed to read frame payload: %w", err)}
			return
		}
		done <- result{payload, nil}
	}()

	select {
	case res := <-done:
		return res.payload, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Response status codes. Verification failures travel as codes so the client
// can surface the same sentinel errors the module returns locally.
const (
	statusOK byte = iota
	statusDelegateVerificationFailed
	statusFraudThresholdExceeded
	statusWindowNotElapsed
	statusFingerprintAbsent
	statusUnauthorized
	statusAlreadyFlagged
	statusInsufficientSignatures
	statusInternal byte = 0xff
)

// encodeResult turns an operation outcome into a response frame: one status
// byte, followed by detail text for internal failures.
func encodeResult(err error) []byte {
	switch {
	case err == nil:
		return []byte{statusOK}
	case errors.Is(err, ism.ErrDelegateVerificationFailed):
		return []byte{statusDelegateVerificationFailed}
	case errors.Is(err, ism.ErrFraudThresholdExceeded):
		return []byte{statusFraudThresholdExceeded}
	case errors.Is(err, ism.ErrWindowNotElapsed):
		return []byte{statusWindowNotElapsed}
	case errors.Is(err, ism.ErrFingerprintAbsent):
		return []byte{statusFingerprintAbsent}
	case errors.Is(err, ism.ErrUnauthorized):
		return []byte{statusUnauthorized}
	case errors.Is(err, ism.ErrAlreadyFlagged):
		return []byte{statusAlreadyFlagged}
	case errors.Is(err, fraud.ErrInsufficientSignatures):
		return []byte{statusInsufficientSignatures}
	default:
		return append([]byte{statusInternal}, err.Error()...)
	}
}

// decodeResult is the client-side inverse of encodeResult.
func decodeResult(payload []byte) error {
	if len(payload) == 0 {
		return ErrMalformedResponse
	}
	switch payload[0] {
	case statusOK:
		return nil
	case statusDelegateVerificationFailed:
		return ism.ErrDelegateVerificationFailed
	case statusFraudThresholdExceeded:
		return ism.ErrFraudThresholdExceeded
	case statusWindowNotElapsed:
		return ism.ErrWindowNotElapsed
	case statusFingerprintAbsent:
		return ism.ErrFingerprintAbsent
	case statusUnauthorized:
		return ism.ErrUnauthorized
	case statusAlreadyFlagged:
		return ism.ErrAlreadyFlagged
	case statusInsufficientSignatures:
		return fraud.ErrInsufficientSignatures
	case statusInternal:
		return fmt.Errorf("%w: %s", ErrRemoteFailure, payload[1:])
	default:
		return ErrMalformedResponse
	}
}

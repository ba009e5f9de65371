package gateway

import "errors"

var (
	// ErrInvalidCertificate means a peer certificate failed validation.
	ErrInvalidCertificate = errors.New("invalid certificate")
	// ErrUnknownStreamKind means a stream opened with an unrecognized kind
	// byte.
	ErrUnknownStreamKind = errors.New("unknown stream kind")
	// ErrFrameTooLarge means a frame declared a payload above the allowed
	// maximum.
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")
	// ErrMalformedResponse means a response frame could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrRemoteFailure wraps a gateway-side failure that has no dedicated
	// status code.
	ErrRemoteFailure = errors.New("remote failure")
)

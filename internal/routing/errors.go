package routing

import "errors"

var (
	// ErrNoRoute is returned when no route serves the message's origin.
	ErrNoRoute = errors.New("no route for message")

	// ErrBadAttestation is returned when the delegate sub-payload does not
	// carry a valid attester signature.
	ErrBadAttestation = errors.New("bad delegate attestation")
)

package message

import "errors"

var (
	// ErrMessageTooShort is returned when a message is shorter than the wire
	// header.
	ErrMessageTooShort = errors.New("message shorter than header")

	// ErrMetadataTooShort is returned when metadata cannot hold the declared
	// delegate payload.
	ErrMetadataTooShort = errors.New("metadata shorter than declared payload")

	// ErrMalformedSignatures is returned when the signature section is not a
	// whole number of signatures.
	ErrMalformedSignatures = errors.New("signature section not a multiple of signature size")

	// ErrSignatureIndexOutOfRange is returned when requesting a signature
	// index past the end of the signature section.
	ErrSignatureIndexOutOfRange = errors.New("signature index out of range")
)

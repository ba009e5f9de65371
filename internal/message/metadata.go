package message

import (
	"encoding/binary"

	"github.com/persimmonlabs/optimist/internal/crypto"
)

// payloadLenSize is the big-endian uint32 length prefix of the delegate
// sub-payload.
const payloadLenSize = 4

// Metadata is the caller-supplied byte payload accompanying a message. It
// decomposes into a sub-payload consumed by the delegate checker followed by a
// packed sequence of fixed-size watcher signatures:
//
//	[0:4]    big-endian uint32, length N of the delegate payload
//	[4:4+N]  delegate payload
//	[4+N:]   zero or more 64-byte ed25519 signatures
type Metadata []byte

// DelegatePayload returns the sub-payload destined for the delegate checker.
func (m Metadata) DelegatePayload() ([]byte, error) {
	if len(m) < payloadLenSize {
		return nil, ErrMetadataTooShort
	}
	n := binary.BigEndian.Uint32(m[:payloadLenSize])
	if uint64(len(m)) < payloadLenSize+uint64(n) {
		return nil, ErrMetadataTooShort
	}
	return m[payloadLenSize : payloadLenSize+n], nil
}

func (m Metadata) signatureSection() ([]byte, error) {
	payload, err := m.DelegatePayload()
	if err != nil {
		return nil, err
	}
	section := m[payloadLenSize+len(payload):]
	if len(section)%crypto.Ed25519SignatureSize != 0 {
		return nil, ErrMalformedSignatures
	}
	return section, nil
}

// SignatureCount returns the number of watcher signatures carried by the
// metadata.
func (m Metadata) SignatureCount() (int, error) {
	section, err := m.signatureSection()
	if err != nil {
		return 0, err
	}
	return len(section) / crypto.Ed25519SignatureSize, nil
}

// SignatureAt returns the i-th watcher signature.
func (m Metadata) SignatureAt(i int) (crypto.Ed25519Signature, error) {
	section, err := m.signatureSection()
	if err != nil {
		return crypto.Ed25519Signature{}, err
	}
	if i < 0 || (i+1)*crypto.Ed25519SignatureSize > len(section) {
		return crypto.Ed25519Signature{}, ErrSignatureIndexOutOfRange
	}
	var sig crypto.Ed25519Signature
	copy(sig[:], section[i*crypto.Ed25519SignatureSize:])
	return sig, nil
}

// EncodeMetadata assembles metadata from a delegate payload and watcher
// signatures. It is the counterpart of the accessors above, used by encoders
// and tests.
func EncodeMetadata(delegatePayload []byte, signatures []crypto.Ed25519Signature) Metadata {
	out := make([]byte, payloadLenSize, payloadLenSize+len(delegatePayload)+len(signatures)*crypto.Ed25519SignatureSize)
	binary.BigEndian.PutUint32(out, uint32(len(delegatePayload)))
	out = append(out, delegatePayload...)
	for _, sig := range signatures {
		out = append(out, sig[:]...)
	}
	return out
}

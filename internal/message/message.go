package message

import (
	"encoding/binary"

	"github.com/persimmonlabs/optimist/internal/crypto"
)

// Wire offsets of the interchain message header. All multi-byte fields are
// big-endian. The body occupies everything past the header.
const (
	versionOffset     = 0
	nonceOffset       = 1
	originOffset      = 5
	senderOffset      = 9
	destinationOffset = 41
	recipientOffset   = 45
	bodyOffset        = 77

	// HeaderSize is the minimum length of a well-formed message.
	HeaderSize = bodyOffset

	AddressSize = 32
)

// Message is a formatted interchain message as produced by the origin-chain
// mailbox. The core treats it as opaque apart from the header accessors below;
// its content selects the delegate checker and the watcher parameters.
type Message []byte

func (m Message) wellFormed() error {
	if len(m) < HeaderSize {
		return ErrMessageTooShort
	}
	return nil
}

func (m Message) Version() (uint8, error) {
	if err := m.wellFormed(); err != nil {
		return 0, err
	}
	return m[versionOffset], nil
}

func (m Message) Nonce() (uint32, error) {
	if err := m.wellFormed(); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(m[nonceOffset:originOffset]), nil
}

// Origin returns the domain identifier of the chain the message was dispatched
// from. Routing policies key on it.
func (m Message) Origin() (uint32, error) {
	if err := m.wellFormed(); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(m[originOffset:senderOffset]), nil
}

func (m Message) Sender() ([AddressSize]byte, error) {
	if err := m.wellFormed(); err != nil {
		return [AddressSize]byte{}, err
	}
	return [AddressSize]byte(m[senderOffset:destinationOffset]), nil
}

func (m Message) Destination() (uint32, error) {
	if err := m.wellFormed(); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(m[destinationOffset:recipientOffset]), nil
}

func (m Message) Recipient() ([AddressSize]byte, error) {
	if err := m.wellFormed(); err != nil {
		return [AddressSize]byte{}, err
	}
	return [AddressSize]byte(m[recipientOffset:bodyOffset]), nil
}

func (m Message) Body() ([]byte, error) {
	if err := m.wellFormed(); err != nil {
		return nil, err
	}
	return m[bodyOffset:], nil
}

// ID returns the Keccak-256 digest of the full message bytes. It is the digest
// watchers sign in fraud proofs and the key under which delivery is recorded
// by the host mailbox.
func (m Message) ID() crypto.Hash {
	return crypto.KeccakData(m)
}

// EncodeMessage assembles a wire-format message. Formatting belongs to the
// origin-chain mailbox; this encoder exists for tests and local tooling.
func EncodeMessage(version uint8, nonce, origin uint32, sender [AddressSize]byte, destination uint32, recipient [AddressSize]byte, body []byte) Message {
	out := make([]byte, HeaderSize, HeaderSize+len(body))
	out[versionOffset] = version
	binary.BigEndian.PutUint32(out[nonceOffset:], nonce)
	binary.BigEndian.PutUint32(out[originOffset:], origin)
	copy(out[senderOffset:], sender[:])
	binary.BigEndian.PutUint32(out[destinationOffset:], destination)
	copy(out[recipientOffset:], recipient[:])
	return append(out, body...)
}

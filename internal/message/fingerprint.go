package message

import (
	"encoding/binary"

	"github.com/persimmonlabs/optimist/internal/crypto"
)

// Fingerprint derives the windowing key for a (metadata, message) pair. The
// metadata is length-prefixed before hashing so distinct splits of the same
// concatenation cannot collide.
func Fingerprint(metadata Metadata, msg Message) crypto.Hash {
	buf := make([]byte, 4, 4+len(metadata)+len(msg))
	binary.BigEndian.PutUint32(buf, uint32(len(metadata)))
	buf = append(buf, metadata...)
	buf = append(buf, msg...)
	return crypto.HashData(buf)
}

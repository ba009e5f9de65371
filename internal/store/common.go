package store

const (
	ErrFailedBatchCommit = "failed to commit batch: %w"
)

// Prefix constants for all store types
const (
	prefixWindowTarget byte = iota + 1
	prefixFinalizedAt
	prefixFraudFlag
	prefixFraudCount
)

// PrefixToString converts a prefix byte to a string
func PrefixToString(p byte) string {
	switch p {
	case prefixWindowTarget:
		return "windowTarget"
	case prefixFinalizedAt:
		return "finalizedAt"
	case prefixFraudFlag:
		return "fraudFlag"
	case prefixFraudCount:
		return "fraudCount"
	default:
		return "unknown"
	}
}

// makeKey creates a key from a prefix and hash
func makeKey(prefix byte, hash []byte) []byte {
	key := make([]byte, 1+len(hash))
	key[0] = prefix
	copy(key[1:], hash)
	return key
}

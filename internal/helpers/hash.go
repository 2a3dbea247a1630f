package helpers

// From: https://en.wikipedia.org/wiki/Fowler%E2%80%93Noll%E2%80%93Vo_hash_function
const (
	fnvOffsetBasis = 14695981039346656037
	fnvPrime       = 1099511628211
)

// HashString returns a stable 64-bit hash of the text. Synthesized names are
// derived from these hashes, so the value must never depend on anything other
// than the input bytes.
func HashString(text string) uint64 {
	hash := uint64(fnvOffsetBasis)
	for i := 0; i < len(text); i++ {
		hash ^= uint64(text[i])
		hash *= fnvPrime
	}
	return hash
}

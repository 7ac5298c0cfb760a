package utils

// CanonicalPair orders two user ids lexicographically. Match and
// Conversation records are keyed by this ordering so that (A,B) and (B,A)
// always resolve to the same physical record.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// PairKey builds the storage key for a symmetric user pair.
func PairKey(a, b string) string {
	lo, hi := CanonicalPair(a, b)
	return lo + "|" + hi
}

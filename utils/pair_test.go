package utils

import "testing"

func TestCanonicalPairOrdersLexicographically(t *testing.T) {
	lo, hi := CanonicalPair("zoe", "adam")
	if lo != "adam" || hi != "zoe" {
		t.Fatalf("CanonicalPair(zoe, adam) = %s, %s", lo, hi)
	}
}

func TestPairKeySymmetric(t *testing.T) {
	if PairKey("u1", "u2") != PairKey("u2", "u1") {
		t.Fatal("pair key must be identical in either argument order")
	}
	if got := PairKey("u2", "u1"); got != "u1|u2" {
		t.Fatalf("PairKey = %q, want u1|u2", got)
	}
}

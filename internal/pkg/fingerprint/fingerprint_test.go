package fingerprint

import "testing"

func TestDigestDeterministic(t *testing.T) {
	a := Digest("search", "golang generics", "5", "instant")
	b := Digest("search", "golang generics", "5", "instant")
	if a != b {
		t.Fatalf("same inputs produced %q and %q", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("digest length = %d, want 16", len(a))
	}
}

func TestDigestFieldBoundaries(t *testing.T) {
	if Digest("search", "ab", "c") == Digest("search", "a", "bc") {
		t.Fatal("field boundaries are ambiguous")
	}
}

func TestDigestCommandMatters(t *testing.T) {
	if Digest("search", "query") == Digest("find", "query") {
		t.Fatal("command name not part of the digest")
	}
}

func TestDigestOrderMatters(t *testing.T) {
	if Digest("search", "a", "b") == Digest("search", "b", "a") {
		t.Fatal("field order not part of the digest")
	}
}

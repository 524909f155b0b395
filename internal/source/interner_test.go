package source

import "testing"

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()

	a := in.Intern("width")
	b := in.Intern("height")
	if a == b {
		t.Fatalf("distinct strings got same ID %d", a)
	}
	if got := in.Intern("width"); got != a {
		t.Fatalf("re-intern changed ID: %d != %d", got, a)
	}

	s, ok := in.Lookup(a)
	if !ok || s != "width" {
		t.Fatalf("Lookup(%d) = %q, %v", a, s, ok)
	}
}

func TestInternerSentinel(t *testing.T) {
	in := NewInterner()
	if got := in.Intern(""); got != NoStringID {
		t.Fatalf("empty string interned as %d, want NoStringID", got)
	}
	if in.Len() != 1 {
		t.Fatalf("fresh interner Len = %d, want 1", in.Len())
	}
}

func TestInternerBytes(t *testing.T) {
	in := NewInterner()
	a := in.InternBytes([]byte("point"))
	if got := in.Intern("point"); got != a {
		t.Fatalf("InternBytes and Intern disagree: %d vs %d", a, got)
	}
}

func TestInternerInvalidLookup(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatal("Lookup of unknown ID succeeded")
	}
}

package domain

import "testing"

func TestSquishIDStable(t *testing.T) {
	a := SquishID("https://example.test/wiki/Cam")
	b := SquishID("https://example.test/wiki/Cam")

	if a != b {
		t.Fatalf("id not stable: %q != %q", a, b)
	}
	if len(a) != 12 {
		t.Fatalf("id length = %d, want 12", len(a))
	}
}

func TestSquishIDIgnoresQueryAndFragment(t *testing.T) {
	base := SquishID("https://example.test/wiki/Cam")

	variants := []string{
		"https://example.test/wiki/Cam?action=history",
		"https://example.test/wiki/Cam#Gallery",
		"https://example.test/wiki/Cam?veaction=edit#Bio",
	}
	for _, v := range variants {
		if got := SquishID(v); got != base {
			t.Errorf("SquishID(%q) = %q, want %q", v, got, base)
		}
	}
}

func TestSquishIDDistinctPages(t *testing.T) {
	if SquishID("https://example.test/wiki/Cam") == SquishID("https://example.test/wiki/Wendy") {
		t.Fatalf("distinct pages produced the same id")
	}
}

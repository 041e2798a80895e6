package collection

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/adrianwedd/squishmallowdex/internal/domain"
)

func record(id, name string) domain.Squish {
	return domain.Squish{ID: id, Name: name, URL: "https://example.test/wiki/" + name}
}

func TestAddRejectsDuplicates(t *testing.T) {
	acc := NewAccumulator(zerolog.Nop())

	if !acc.Add(record("aaa", "Cam")) {
		t.Fatalf("first add should succeed")
	}
	if acc.Add(record("aaa", "Cam Again")) {
		t.Fatalf("duplicate id should be rejected")
	}
	if acc.Len() != 1 {
		t.Fatalf("len = %d, want 1", acc.Len())
	}
	if !acc.Has("aaa") {
		t.Fatalf("accumulator should contain aaa")
	}
}

func TestSeedDeduplicates(t *testing.T) {
	acc := NewAccumulator(zerolog.Nop())
	acc.Seed([]domain.Squish{
		record("aaa", "Cam"),
		record("bbb", "Wendy"),
		record("aaa", "Cam"),
	})

	if acc.Len() != 2 {
		t.Fatalf("len = %d, want 2", acc.Len())
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	acc := NewAccumulator(zerolog.Nop())
	acc.Add(record("aaa", "Cam"))

	snap := acc.Snapshot()
	acc.Add(record("bbb", "Wendy"))

	if len(snap) != 1 {
		t.Fatalf("snapshot grew with accumulator: len = %d", len(snap))
	}
	snap[0].Name = "Mutated"
	if acc.Snapshot()[0].Name != "Cam" {
		t.Fatalf("mutating a snapshot leaked into the accumulator")
	}
}

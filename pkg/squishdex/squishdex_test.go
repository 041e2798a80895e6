package squishdex

import (
	"os"
	"path/filepath"
	"testing"
)

const fixture = `[
  {"id": "aaa", "name": "Cam", "squad": "Original Squad", "year": 2017, "url": "https://example.test/wiki/Cam"},
  {"id": "bbb", "name": "Wendy", "squad": "Pond Squad", "year": 2019, "url": "https://example.test/wiki/Wendy"},
  {"id": "ccc", "name": "Cameron", "squad": "original squad", "url": "https://example.test/wiki/Cameron"}
]`

func loadFixture(t *testing.T) *Dex {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dataset.json")
	if err := os.WriteFile(path, []byte(fixture), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return d
}

func TestLoadAndGet(t *testing.T) {
	d := loadFixture(t)

	if len(d.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(d.Records))
	}
	if r := d.Get("bbb"); r == nil || r.Name != "Wendy" {
		t.Fatalf("Get(bbb) = %+v", r)
	}
	if d.Get("zzz") != nil {
		t.Fatalf("unknown id should return nil")
	}
}

func TestFindByName(t *testing.T) {
	d := loadFixture(t)

	got := d.FindByName("cam")
	if len(got) != 2 {
		t.Fatalf("FindByName(cam) = %d results, want 2", len(got))
	}
}

func TestSquadIsCaseInsensitive(t *testing.T) {
	d := loadFixture(t)

	got := d.Squad("ORIGINAL SQUAD")
	if len(got) != 2 {
		t.Fatalf("Squad() = %d results, want 2", len(got))
	}
}

func TestYearsSkipsUnknown(t *testing.T) {
	d := loadFixture(t)

	years := d.Years()
	if len(years) != 2 {
		t.Fatalf("years = %v, want two known years", years)
	}
}

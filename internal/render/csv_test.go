package render

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrianwedd/squishmallowdex/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	scraped := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	records := domain.Snapshot{
		{
			ID:              "aaa111bbb222",
			Name:            "Cam",
			Type:            "Cat",
			Color:           "Brown, White",
			Squad:           "Original Squad",
			Sizes:           []string{"8 in", "16 in"},
			CollectorNumber: 143,
			Year:            2017,
			Bio:             "A calico cat.",
			ImageURL:        "https://static.example.test/cam.png",
			URL:             "https://example.test/wiki/Cam",
			ScrapedAt:       scraped,
		},
		{
			ID:   "ccc333ddd444",
			Name: "Mystery",
			URL:  "https://example.test/wiki/Mystery",
		},
	}

	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 records", len(rows))
	}

	header := rows[0]
	if header[0] != "id" || header[1] != "name" {
		t.Fatalf("unexpected header: %v", header)
	}

	cam := rows[1]
	if cam[1] != "Cam" {
		t.Errorf("name cell = %q", cam[1])
	}
	if cam[5] != "8 in; 16 in" {
		t.Errorf("sizes cell = %q, want joined with semicolons", cam[5])
	}
	if cam[6] != "143" || cam[7] != "2017" {
		t.Errorf("numeric cells = %q/%q", cam[6], cam[7])
	}
	if cam[11] != scraped.Format(time.RFC3339) {
		t.Errorf("scraped_at cell = %q", cam[11])
	}

	mystery := rows[2]
	if mystery[6] != "" || mystery[7] != "" {
		t.Errorf("zero numerics should render empty, got %q/%q", mystery[6], mystery[7])
	}
}

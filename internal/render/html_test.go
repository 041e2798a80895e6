package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrianwedd/squishmallowdex/internal/domain"
)

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.html")

	records := domain.Snapshot{
		{ID: "aaa", Name: "Zed", Year: 0, URL: "https://example.test/wiki/Zed"},
		{ID: "bbb", Name: "Cam", Year: 2017, ImageURL: "https://static.example.test/cam.png", URL: "https://example.test/wiki/Cam"},
		{ID: "ccc", Name: "Wendy", Year: 2019, URL: "https://example.test/wiki/Wendy"},
	}
	localImages := map[string]string{
		"bbb": filepath.Join(dir, "imgs", "cam.png"),
	}

	if err := WriteHTML(path, "Squishmallowdex", records, localImages); err != nil {
		t.Fatalf("write html: %v", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	page := string(body)

	if !strings.Contains(page, "Squishmallowdex") {
		t.Errorf("title missing")
	}
	for _, name := range []string{"Cam", "Wendy", "Zed"} {
		if !strings.Contains(page, name) {
			t.Errorf("record %s missing from page", name)
		}
	}

	// known years first, unknown year last
	cam := strings.Index(page, "Cam")
	wendy := strings.Index(page, "Wendy")
	zed := strings.Index(page, "Zed")
	if !(cam < wendy && wendy < zed) {
		t.Errorf("rows out of order: cam=%d wendy=%d zed=%d", cam, wendy, zed)
	}

	if !strings.Contains(page, "imgs/cam.png") {
		t.Errorf("mirrored image path not rendered")
	}
}

func TestWriteHTMLEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.html")

	if err := WriteHTML(path, "Squishmallowdex", nil, nil); err != nil {
		t.Fatalf("write html: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

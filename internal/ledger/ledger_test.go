package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "progress.txt"), zerolog.Nop())

	if err := l.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("len = %d, want 0", l.Len())
	}
}

func TestMarkDoneRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.txt")

	l := New(path, zerolog.Nop())
	if err := l.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	urls := []string{
		"https://example.test/wiki/Cam",
		"https://example.test/wiki/Wendy",
	}
	for _, u := range urls {
		if err := l.MarkDone(u); err != nil {
			t.Fatalf("mark done %s: %v", u, err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded := New(path, zerolog.Nop())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Len() != len(urls) {
		t.Fatalf("len = %d, want %d", reloaded.Len(), len(urls))
	}
	for _, u := range urls {
		if !reloaded.Contains(u) {
			t.Fatalf("reloaded ledger missing %s", u)
		}
	}
}

func TestMarkDoneIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.txt")

	l := New(path, zerolog.Nop())
	for i := 0; i < 3; i++ {
		if err := l.MarkDone("https://example.test/wiki/Cam"); err != nil {
			t.Fatalf("mark done: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if got := strings.Count(string(body), "\n"); got != 1 {
		t.Fatalf("ledger has %d lines, want 1", got)
	}
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
}

func TestLoadDropsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.txt")
	content := strings.Join([]string{
		"https://example.test/wiki/Cam",
		"not a url at all",
		"/wiki/relative-only",
		"",
		"https://example.test/wiki/Wendy",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := New(path, zerolog.Nop())
	if err := l.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if l.Len() != 2 {
		t.Fatalf("len = %d, want 2", l.Len())
	}
	if l.Contains("/wiki/relative-only") {
		t.Fatalf("relative line should have been dropped")
	}
}

func TestResetClearsFileAndMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.txt")

	l := New(path, zerolog.Nop())
	if err := l.MarkDone("https://example.test/wiki/Cam"); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if err := l.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if l.Len() != 0 {
		t.Fatalf("len after reset = %d, want 0", l.Len())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("ledger file should be gone after reset, stat err = %v", err)
	}
}

// Package ledger persists the set of already-processed URLs as an
// append-only file, one URL per line, so an interrupted run can resume
// without repeating work.
package ledger

import (
	"bufio"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Ledger struct {
	path string
	log  zerolog.Logger
	done map[string]struct{}
	f    *os.File
}

func New(path string, log zerolog.Logger) *Ledger {
	return &Ledger{
		path: path,
		log:  log.With().Str("module", "ledger").Str("path", path).Logger(),
		done: make(map[string]struct{}),
	}
}

// Load reads the ledger file into memory. A missing, unreadable or corrupt
// file degrades to an empty ledger (full re-scan) rather than failing the
// run; availability wins over strict resume accuracy.
func (l *Ledger) Load() error {
	l.done = make(map[string]struct{})

	f, err := os.Open(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.Warn().Err(err).Msg("ledger unreadable, treating as empty")
		}
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if u, perr := url.Parse(line); perr != nil || !u.IsAbs() {
			l.log.Warn().Str("line", line).Msg("dropping malformed ledger line")
			continue
		}
		l.done[line] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		l.log.Warn().Err(err).Msg("ledger corrupt, treating as empty")
		l.done = make(map[string]struct{})
		return nil
	}

	l.log.Debug().Int("count", len(l.done)).Msg("loaded ledger")
	return nil
}

// Contains reports whether the URL has been marked done.
func (l *Ledger) Contains(rawURL string) bool {
	_, ok := l.done[rawURL]
	return ok
}

// Len returns the number of done URLs.
func (l *Ledger) Len() int {
	return len(l.done)
}

// MarkDone appends the URL to the ledger. Marking an already-done URL is a
// no-op, so membership only ever grows within a run.
func (l *Ledger) MarkDone(rawURL string) error {
	if _, ok := l.done[rawURL]; ok {
		return nil
	}

	if l.f == nil {
		f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return errors.Wrapf(err, "failed to open ledger %s", l.path)
		}
		l.f = f
	}

	if _, err := l.f.WriteString(rawURL + "\n"); err != nil {
		return errors.Wrapf(err, "failed to append to ledger %s", l.path)
	}

	l.done[rawURL] = struct{}{}
	return nil
}

// Flush fsyncs the ledger file so progress survives an interrupt.
func (l *Ledger) Flush() error {
	if l.f == nil {
		return nil
	}
	if err := l.f.Sync(); err != nil {
		return errors.Wrap(err, "failed to sync ledger")
	}
	return nil
}

// Reset clears the ledger on disk and in memory, used by rebuild.
func (l *Ledger) Reset() error {
	if l.f != nil {
		l.f.Close()
		l.f = nil
	}

	l.done = make(map[string]struct{})
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove ledger %s", l.path)
	}
	return nil
}

// Close flushes and releases the underlying file.
func (l *Ledger) Close() error {
	if l.f == nil {
		return nil
	}
	if err := l.f.Sync(); err != nil {
		l.log.Warn().Err(err).Msg("failed to sync ledger on close")
	}
	err := l.f.Close()
	l.f = nil
	return err
}

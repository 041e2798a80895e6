// Package cachestore stores raw fetched page bodies on disk, one file per
// URL, so resumed runs never re-fetch a page the cache already holds.
package cachestore

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Store struct {
	dir string
	log zerolog.Logger
}

func New(dir string, log zerolog.Logger) *Store {
	return &Store{
		dir: dir,
		log: log.With().Str("module", "cachestore").Logger(),
	}
}

// Key returns the filesystem-safe cache key for a URL.
func Key(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Path returns the on-disk location for a URL's cached body.
func (s *Store) Path(url string) string {
	return filepath.Join(s.dir, Key(url)+".html")
}

// Get returns the cached body for a URL. It never touches the network;
// read failures are logged and reported as a miss.
func (s *Store) Get(url string) ([]byte, bool) {
	body, err := os.ReadFile(s.Path(url))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("url", url).Msg("failed to read cache entry")
		}
		return nil, false
	}
	return body, true
}

// Has reports whether a body is cached for the URL.
func (s *Store) Has(url string) bool {
	_, err := os.Stat(s.Path(url))
	return err == nil
}

// Put writes a body into the cache. A failed write degrades to a re-fetch
// next run; callers treat the returned error as non-fatal.
func (s *Store) Put(url string, body []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create cache dir %s", s.dir)
	}

	path := s.Path(url)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return errors.Wrapf(err, "failed to write cache entry %s", path)
	}

	s.log.Debug().Str("url", url).Int("bytes", len(body)).Msg("cached page body")
	return nil
}

// Clear removes the whole cache directory, used by rebuild.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return errors.Wrapf(err, "failed to clear cache dir %s", s.dir)
	}
	return nil
}

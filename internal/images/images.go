// Package images mirrors record thumbnails into a local directory so the
// rendered catalog works offline.
package images

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// minImageBytes rejects obviously broken downloads (error pages, empty
// bodies) masquerading as images.
const minImageBytes = 100

var allowedExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

type Downloader struct {
	client    *http.Client
	dir       string
	userAgent string
	refresh   bool
	log       zerolog.Logger
}

func NewDownloader(dir, userAgent string, timeout time.Duration, refresh bool, log zerolog.Logger) *Downloader {
	return &Downloader{
		client:    &http.Client{Timeout: timeout},
		dir:       dir,
		userAgent: userAgent,
		refresh:   refresh,
		log:       log.With().Str("module", "images").Logger(),
	}
}

// Path returns the local cache location for an image URL.
func Path(dir, rawURL string) string {
	ext := ".jpg"
	if u, err := url.Parse(rawURL); err == nil {
		if e := strings.ToLower(filepath.Ext(u.Path)); e != "" {
			if _, ok := allowedExts[e]; ok {
				ext = e
			}
		}
	}

	sum := sha1.Sum([]byte(rawURL))
	return filepath.Join(dir, hex.EncodeToString(sum[:])+ext)
}

// Mirror downloads the image to the local directory and returns its path.
// An already-cached image is returned without network I/O unless refresh
// is set. Failures never abort a run; the caller logs and moves on.
func (d *Downloader) Mirror(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("empty image url")
	}

	path := Path(d.dir, rawURL)
	if !d.refresh {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create images dir %s", d.dir)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read image body")
	}

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if expected, perr := strconv.Atoi(cl); perr == nil && len(body) < expected {
			return "", fmt.Errorf("incomplete image download: got %d of %d bytes", len(body), expected)
		}
	}
	if len(body) < minImageBytes {
		return "", fmt.Errorf("suspiciously small image (%d bytes)", len(body))
	}

	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write image %s", path)
	}

	d.log.Debug().Str("url", rawURL).Str("path", path).Int("bytes", len(body)).Msg("mirrored image")
	return path, nil
}

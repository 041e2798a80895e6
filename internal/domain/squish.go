package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"time"
)

// Squish stores information about one collectible character
type Squish struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Type            string            `json:"type,omitempty"`
	Color           string            `json:"color,omitempty"`
	Squad           string            `json:"squad,omitempty"`
	Sizes           []string          `json:"sizes,omitempty"`
	CollectorNumber int               `json:"collectorNumber,omitempty"`
	Year            int               `json:"year,omitempty"`
	Bio             string            `json:"bio,omitempty"`
	ImageURL        string            `json:"imageUrl,omitempty"`
	URL             string            `json:"url"`
	Extra           map[string]string `json:"extra,omitempty"`
	ScrapedAt       time.Time         `json:"scrapedAt"`
}

// SquishID derives the stable record identifier from the detail page URL.
// The URL is canonicalized (query and fragment stripped) before hashing so
// the same page always yields the same ID. The wiki guarantees one page per
// character, which makes the URL a safer key than the display name.
func SquishID(pageURL string) string {
	canonical := pageURL
	if u, err := url.Parse(pageURL); err == nil {
		u.RawQuery = ""
		u.Fragment = ""
		canonical = u.String()
	}

	sum := sha1.Sum([]byte(canonical))
	return hex.EncodeToString(sum[:])[:12]
}

// Snapshot is the full ordered record list at a point in time. It is always
// handed off by value; mutating a snapshot never affects the accumulator.
type Snapshot []Squish

// Package squishdex reads a squishmallowdex dataset file and offers simple
// lookups over it. It is the public surface for other tools that want to
// consume a collection without importing the scraper internals.
package squishdex

import (
	"encoding/json"
	"os"
	"strings"
)

// Record is one collected character.
type Record struct {
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
}

// Dex is a loaded collection.
type Dex struct {
	Records []Record
}

// Load reads a dataset file written by the scraper.
func Load(path string) (*Dex, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}

	return &Dex{Records: records}, nil
}

// Get returns the record with the given ID, or nil.
func (d *Dex) Get(id string) *Record {
	for i := range d.Records {
		if d.Records[i].ID == id {
			return &d.Records[i]
		}
	}
	return nil
}

// FindByName returns all records whose name contains the query,
// case-insensitively.
func (d *Dex) FindByName(query string) []Record {
	q := strings.ToLower(query)
	var out []Record
	for _, r := range d.Records {
		if strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}
	return out
}

// Squad returns all records belonging to the given squad.
func (d *Dex) Squad(name string) []Record {
	var out []Record
	for _, r := range d.Records {
		if strings.EqualFold(r.Squad, name) {
			out = append(out, r)
		}
	}
	return out
}

// Years returns the distinct release years present in the collection,
// unsorted, zeroes excluded.
func (d *Dex) Years() []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range d.Records {
		if r.Year == 0 {
			continue
		}
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		out = append(out, r.Year)
	}
	return out
}

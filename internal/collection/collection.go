// Package collection holds the growing, de-duplicated record list for one
// pipeline run.
package collection

import (
	"github.com/rs/zerolog"

	"github.com/adrianwedd/squishmallowdex/internal/domain"
)

// Accumulator appends parsed records, dropping duplicate identifiers.
// Records are immutable once appended; a rebuild replaces the whole
// collection rather than mutating individual entries.
type Accumulator struct {
	log     zerolog.Logger
	records []domain.Squish
	index   map[string]struct{}
}

func NewAccumulator(log zerolog.Logger) *Accumulator {
	return &Accumulator{
		log:   log.With().Str("module", "collection").Logger(),
		index: make(map[string]struct{}),
	}
}

// Seed loads an existing dataset into the accumulator, typically the
// persisted collection from a previous run. Duplicates are dropped.
func (a *Accumulator) Seed(records []domain.Squish) {
	for _, r := range records {
		a.Add(r)
	}
}

// Add appends a record. It returns false when a record with the same
// identifier is already present.
func (a *Accumulator) Add(s domain.Squish) bool {
	if _, ok := a.index[s.ID]; ok {
		a.log.Debug().Str("id", s.ID).Str("name", s.Name).Msg("dropping duplicate record")
		return false
	}

	a.index[s.ID] = struct{}{}
	a.records = append(a.records, s)
	return true
}

// Has reports whether a record with the given identifier exists.
func (a *Accumulator) Has(id string) bool {
	_, ok := a.index[id]
	return ok
}

// Len returns the number of accumulated records.
func (a *Accumulator) Len() int {
	return len(a.records)
}

// Snapshot returns a copy of the record list. The copy is owned by the
// caller; later appends never show through.
func (a *Accumulator) Snapshot() domain.Snapshot {
	out := make(domain.Snapshot, len(a.records))
	copy(out, a.records)
	return out
}

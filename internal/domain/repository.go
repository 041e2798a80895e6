package domain

import "context"

// CollectionRepository persists the accumulated record dataset.
type CollectionRepository interface {
	Load(ctx context.Context, path string) ([]Squish, error)
	Store(ctx context.Context, path string, records []Squish) error
}

// OverridesRepository loads manual field corrections keyed by record ID.
type OverridesRepository interface {
	LoadOverrides(ctx context.Context, path string) (map[string]FieldPatch, error)
}

// FieldPatch is one manual correction entry. Nil fields are left untouched.
type FieldPatch struct {
	Name            *string  `yaml:"name"`
	Type            *string  `yaml:"type"`
	Color           *string  `yaml:"color"`
	Squad           *string  `yaml:"squad"`
	Sizes           []string `yaml:"sizes"`
	CollectorNumber *int     `yaml:"collectorNumber"`
	Year            *int     `yaml:"year"`
	Bio             *string  `yaml:"bio"`
	ImageURL        *string  `yaml:"imageUrl"`
}

// Apply patches the non-nil fields onto the record.
func (p FieldPatch) Apply(s *Squish) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Squad != nil {
		s.Squad = *p.Squad
	}
	if p.Sizes != nil {
		s.Sizes = p.Sizes
	}
	if p.CollectorNumber != nil {
		s.CollectorNumber = *p.CollectorNumber
	}
	if p.Year != nil {
		s.Year = *p.Year
	}
	if p.Bio != nil {
		s.Bio = *p.Bio
	}
	if p.ImageURL != nil {
		s.ImageURL = *p.ImageURL
	}
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/adrianwedd/squishmallowdex/internal/domain"
)

// FileRepository implements domain.CollectionRepository and
// domain.OverridesRepository using file storage
type FileRepository struct {
	log zerolog.Logger
}

// NewFileRepository creates a new file-based repository
func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("module", "repository").Logger(),
	}
}

var _ domain.CollectionRepository = (*FileRepository)(nil)
var _ domain.OverridesRepository = (*FileRepository)(nil)

// Load retrieves the record dataset from a file.
func (r *FileRepository) Load(ctx context.Context, path string) ([]domain.Squish, error) {
	records := []domain.Squish{}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	err = json.Unmarshal(body, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal json from %s: %w", path, err)
	}

	return records, nil
}

// Store saves the record dataset to a file.
func (r *FileRepository) Store(ctx context.Context, path string, records []domain.Squish) error {
	j, err := json.MarshalIndent(records, "", "   ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	_, err = f.Write(j)
	if err != nil {
		return fmt.Errorf("failed to write to file %s: %w", path, err)
	}

	r.log.Debug().Str("path", path).Int("count", len(records)).Msg("stored dataset")
	return nil
}

type overridesFile struct {
	Overrides map[string]domain.FieldPatch `yaml:"overrides"`
}

// LoadOverrides reads the manual-corrections file. A missing file is not
// an error; it simply yields no patches.
func (r *FileRepository) LoadOverrides(ctx context.Context, path string) (map[string]domain.FieldPatch, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]domain.FieldPatch{}, nil
		}
		return nil, fmt.Errorf("failed to open overrides %s: %w", path, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides %s: %w", path, err)
	}

	of := &overridesFile{}
	if err := yaml.Unmarshal(b, of); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml from %s: %w", path, err)
	}

	if of.Overrides == nil {
		of.Overrides = map[string]domain.FieldPatch{}
	}

	r.log.Debug().Str("path", path).Int("count", len(of.Overrides)).Msg("loaded overrides")
	return of.Overrides, nil
}

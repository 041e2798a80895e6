package domain

import (
	"path/filepath"
	"strings"
)

// Paths holds all filesystem locations used by one pipeline run
type Paths struct {
	RootDir       string
	CacheDir      string
	ImagesDir     string
	ProgressPath  string
	SkippedPath   string
	DatasetPath   string
	CSVPath       string
	HTMLPath      string
	OverridesPath string
	DBPath        string
}

// NewPaths resolves the configured file names against the root directory.
func NewPaths(cfg *Config) *Paths {
	root := cfg.RootPath
	if root == "" {
		root = "."
	}

	progress := filepath.Join(root, cfg.ProgressFile)
	return &Paths{
		RootDir:       root,
		CacheDir:      filepath.Join(root, cfg.CacheDir),
		ImagesDir:     filepath.Join(root, cfg.ImagesDir),
		ProgressPath:  progress,
		SkippedPath:   skippedPath(progress),
		DatasetPath:   filepath.Join(root, cfg.DatasetFile),
		CSVPath:       filepath.Join(root, cfg.CSVFile),
		HTMLPath:      filepath.Join(root, cfg.HTMLFile),
		OverridesPath: filepath.Join(root, cfg.OverridesFile),
		DBPath:        root,
	}
}

// skippedPath derives the skipped-URLs ledger path from the progress path,
// regardless of extension: progress_urls.txt -> progress_urls_skipped.txt.
func skippedPath(progressPath string) string {
	ext := filepath.Ext(progressPath)
	base := strings.TrimSuffix(progressPath, ext)
	if ext == "" {
		ext = ".txt"
	}
	return base + "_skipped" + ext
}

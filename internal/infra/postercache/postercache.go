package infra_postercache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

// Cache is the flat on-disk poster cache. Filenames are the encoded MovieId
// plus the original image extension; a hit means no network fetch at all.
type Cache struct {
	dir string
}

func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create poster cache dir %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// Lookup returns the cached poster path for the movie, or "" when absent.
// Any file literally named `<movieId>.*` counts.
func (c *Cache) Lookup(id model.MovieId) string {
	matches, err := filepath.Glob(filepath.Join(c.dir, glob(id)))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// Store writes the poster and returns its path.
func (c *Cache) Store(id model.MovieId, poster model.Poster) (string, error) {
	ext := poster.Extension
	if ext == "" {
		ext = ".jpg"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	path := filepath.Join(c.dir, id.Key()+ext)
	if err := os.WriteFile(path, poster.Content, 0o644); err != nil {
		return "", fmt.Errorf("store poster %s: %w", path, err)
	}
	return path, nil
}

func glob(id model.MovieId) string {
	// Key contains no glob metacharacters: source names and languages are
	// plain words and native ids are alphanumeric.
	return id.Key() + ".*"
}

package lookup

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed seed/*.json
var seedTables embed.FS

// SeedCategories lists the categories shipped with the binary.
func SeedCategories() []string {
	entries, err := seedTables.ReadDir("seed")
	if err != nil {
		return nil
	}
	var categories []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		categories = append(categories, strings.TrimSuffix(e.Name(), fileExt))
	}
	return categories
}

// Seed writes the embedded tables into dir. Existing files are left untouched.
// It returns the categories that were written.
func Seed(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating lookup directory: %w", err)
	}

	var written []string
	for _, category := range SeedCategories() {
		path := filepath.Join(dir, category+fileExt)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return written, fmt.Errorf("checking %s: %w", path, err)
		}

		data, err := seedTables.ReadFile("seed/" + category + fileExt)
		if err != nil {
			return written, fmt.Errorf("reading seed table %s: %w", category, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, category)
	}
	return written, nil
}

package lookup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileExt = ".json"

// FileStore keeps one JSON object per category in a directory: <dir>/<category>.json.
// Categories are read on first use. Every write rewrites the whole category file.
type FileStore struct {
	dir    string
	tables map[string]map[string]string
}

// NewFileStore creates a store backed by dir. Nothing is read until a category is used.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:    dir,
		tables: make(map[string]map[string]string),
	}
}

// Dir returns the directory holding the category files.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file backing a category.
func (s *FileStore) Path(category string) string {
	return filepath.Join(s.dir, category+fileExt)
}

func (s *FileStore) open(category string) (map[string]string, error) {
	if table, ok := s.tables[category]; ok {
		return table, nil
	}

	path := s.Path(category)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &Error{Category: category, Err: ErrUnknownCategory}
	}
	if err != nil {
		return nil, &Error{Category: category, Err: fmt.Errorf("reading %s: %w", path, err)}
	}

	table := make(map[string]string)
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, &Error{Category: category, Err: fmt.Errorf("parsing %s: %w", path, err)}
	}
	slog.Debug("loaded lookup table", "category", category, "entries", len(table), "path", path)

	s.tables[category] = table
	return table, nil
}

// Get implements Store.
func (s *FileStore) Get(category, label string) (string, bool, error) {
	table, err := s.open(category)
	if err != nil {
		return "", false, err
	}
	id, ok := table[label]
	return id, ok, nil
}

// Put implements Store. The category file is rewritten before Put returns.
func (s *FileStore) Put(category, label, id string) error {
	table, err := s.open(category)
	if err != nil {
		return err
	}
	table[label] = id
	return s.save(category, table)
}

// Merge adds entries to a category, creating the category if it does not exist yet,
// and writes the file once.
func (s *FileStore) Merge(category string, entries map[string]string) error {
	table, err := s.open(category)
	if errors.Is(err, ErrUnknownCategory) {
		table = make(map[string]string)
		s.tables[category] = table
	} else if err != nil {
		return err
	}
	for label, id := range entries {
		table[label] = id
	}
	return s.save(category, table)
}

// Entries returns a copy of a category's table.
func (s *FileStore) Entries(category string) (map[string]string, error) {
	table, err := s.open(category)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out, nil
}

// Categories lists the categories present in the directory.
func (s *FileStore) Categories() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading lookup directory: %w", err)
	}
	var categories []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		categories = append(categories, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *FileStore) save(category string, table map[string]string) error {
	data, err := Marshal(table)
	if err != nil {
		return &Error{Category: category, Err: fmt.Errorf("encoding table: %w", err)}
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &Error{Category: category, Err: fmt.Errorf("creating lookup directory: %w", err)}
	}
	if err := os.WriteFile(s.Path(category), data, 0644); err != nil {
		return &Error{Category: category, Err: fmt.Errorf("writing table: %w", err)}
	}
	return nil
}

// Marshal encodes a table the way it is stored on disk: two-space indent, sorted keys,
// non-ASCII and HTML characters written as-is.
func Marshal(table map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

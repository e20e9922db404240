// Package lookup holds the curated label -> Wikidata id tables, one per category
// (institutions, role, fields, ...).
package lookup

import (
	"errors"
	"fmt"
)

// Well-known categories.
const (
	CategoryInstitutions = "institutions"
	CategoryRole         = "role"
	CategoryFields       = "fields"
)

// ErrUnknownCategory is matched by errors returned for categories that do not exist.
var ErrUnknownCategory = errors.New("unknown lookup category")

// Error is returned when a category cannot be opened.
type Error struct {
	Category string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("lookup category %q: %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Store maps free-text labels to entity ids per category.
type Store interface {
	// Get returns the id stored for label in category.
	Get(category, label string) (string, bool, error)

	// Put stores id for label and persists the category.
	Put(category, label, id string) error
}

// MemoryStore is a Store kept in memory. Only categories it was created with exist.
type MemoryStore struct {
	tables map[string]map[string]string
}

// NewMemoryStore creates a store with the given (possibly empty) categories.
func NewMemoryStore(categories ...string) *MemoryStore {
	s := &MemoryStore{tables: make(map[string]map[string]string)}
	for _, c := range categories {
		s.tables[c] = make(map[string]string)
	}
	return s
}

// Get implements Store.
func (s *MemoryStore) Get(category, label string) (string, bool, error) {
	table, ok := s.tables[category]
	if !ok {
		return "", false, &Error{Category: category, Err: ErrUnknownCategory}
	}
	id, ok := table[label]
	return id, ok, nil
}

// Put implements Store.
func (s *MemoryStore) Put(category, label, id string) error {
	table, ok := s.tables[category]
	if !ok {
		return &Error{Category: category, Err: ErrUnknownCategory}
	}
	table[label] = id
	return nil
}

// Len returns the number of entries in a category.
func (s *MemoryStore) Len(category string) int {
	return len(s.tables[category])
}

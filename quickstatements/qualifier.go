package quickstatements

import (
	"encoding/json"
	"fmt"
	"time"
)

// Common qualifier predicates.
const (
	PredicateReferenceURL = "S854"
	PredicateStartTime    = "P580"
	PredicateEndTime      = "P582"
)

// Qualifier is a predicate/target pair attached to a statement line.
// The set of implementations is closed: EntityQualifier, DateQualifier and TextQualifier.
type Qualifier interface {
	// Predicate returns the qualifier's property or source id.
	Predicate() string

	// Render returns the target as it appears in a QuickStatements line.
	Render() string

	isQualifier()
}

// EntityQualifier points at a Wikidata entity.
type EntityQualifier struct {
	predicate string
	target    string
}

// NewEntityQualifier creates an entity-valued qualifier.
func NewEntityQualifier(predicate, target string) (*EntityQualifier, error) {
	if err := validateReferenceID("qualifier.predicate", predicate); err != nil {
		return nil, err
	}
	if err := validateReferenceID("qualifier.target", target); err != nil {
		return nil, err
	}
	return &EntityQualifier{predicate: predicate, target: target}, nil
}

func (q *EntityQualifier) Predicate() string { return q.predicate }
func (q *EntityQualifier) Target() string    { return q.target }
func (q *EntityQualifier) Render() string    { return q.target }
func (q *EntityQualifier) isQualifier()      {}

// DateQualifier points at a point in time with a precision.
type DateQualifier struct {
	predicate string
	time      time.Time
	precision Precision
}

// NewDateQualifier creates a time-valued qualifier.
func NewDateQualifier(predicate string, t time.Time, p Precision) (*DateQualifier, error) {
	if err := validateReferenceID("qualifier.predicate", predicate); err != nil {
		return nil, err
	}
	if !p.Valid() {
		return nil, &ValidationError{
			Field:   "qualifier.precision",
			Value:   p.String(),
			Rule:    "precision",
			Message: fmt.Sprintf("precision must be between %d and %d", PrecisionYear, PrecisionSecond),
		}
	}
	return &DateQualifier{predicate: predicate, time: t, precision: p}, nil
}

// StartTime creates a P580 (start time) qualifier.
func StartTime(t time.Time, p Precision) (*DateQualifier, error) {
	return NewDateQualifier(PredicateStartTime, t, p)
}

// EndTime creates a P582 (end time) qualifier.
func EndTime(t time.Time, p Precision) (*DateQualifier, error) {
	return NewDateQualifier(PredicateEndTime, t, p)
}

func (q *DateQualifier) Predicate() string    { return q.predicate }
func (q *DateQualifier) Time() time.Time      { return q.time }
func (q *DateQualifier) Precision() Precision { return q.precision }
func (q *DateQualifier) Render() string       { return EncodeDate(q.time, q.precision) }
func (q *DateQualifier) isQualifier()         {}

// TextQualifier points at a string literal.
type TextQualifier struct {
	predicate string
	target    string
}

// NewTextQualifier creates a string-valued qualifier.
func NewTextQualifier(predicate, target string) (*TextQualifier, error) {
	if err := validateReferenceID("qualifier.predicate", predicate); err != nil {
		return nil, err
	}
	if err := validateText("qualifier.target", target); err != nil {
		return nil, err
	}
	return &TextQualifier{predicate: predicate, target: target}, nil
}

// ReferenceURL creates an S854 (reference URL) source qualifier.
func ReferenceURL(url string) (*TextQualifier, error) {
	return NewTextQualifier(PredicateReferenceURL, url)
}

func (q *TextQualifier) Predicate() string { return q.predicate }
func (q *TextQualifier) Target() string    { return q.target }
func (q *TextQualifier) Render() string    { return quote(q.target) }
func (q *TextQualifier) isQualifier()      {}

func quote(s string) string {
	return `"` + s + `"`
}

type qualifierJSON struct {
	Type      string `json:"type"`
	Predicate string `json:"predicate"`
	Target    string `json:"target"`
	Precision int    `json:"precision,omitempty"`
}

func (q *EntityQualifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(qualifierJSON{Type: "entity", Predicate: q.predicate, Target: q.target})
}

func (q *DateQualifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(qualifierJSON{
		Type:      "date",
		Predicate: q.predicate,
		Target:    EncodeDate(q.time, q.precision),
		Precision: int(q.precision),
	})
}

func (q *TextQualifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(qualifierJSON{Type: "text", Predicate: q.predicate, Target: q.target})
}

// Package quickstatements models Wikidata QuickStatements (v1 syntax) as typed lines and
// qualifiers that validate on construction and render to the exact line format.
package quickstatements

import (
	"fmt"
	"regexp"
	"strings"
)

// Last is the subject placeholder for the item created by the preceding CREATE line.
const Last = "LAST"

// Label and description pseudo-predicates (English).
const (
	PredicateLabel       = "Len"
	PredicateDescription = "Den"
)

var (
	entityIDRegex    = regexp.MustCompile(`^Q\d+$`)
	propertyIDRegex  = regexp.MustCompile(`^P\d+$`)
	referenceIDRegex = regexp.MustCompile(`^[PQS]\d+$`)
)

// ValidationError represents a statement field that does not match its expected pattern.
type ValidationError struct {
	Field   string
	Value   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %q (rule: %s): %s", e.Field, e.Rule, e.Message)
}

// IsEntityID reports whether s is a Wikidata item id such as Q42.
func IsEntityID(s string) bool {
	return entityIDRegex.MatchString(s)
}

// IsReferenceID reports whether s is an item, property or source id (Q42, P31, S854).
// Qualifier predicates and entity-valued qualifier targets use this syntax.
func IsReferenceID(s string) bool {
	return referenceIDRegex.MatchString(s)
}

func validateSubject(s string) error {
	if s == Last || entityIDRegex.MatchString(s) {
		return nil
	}
	return &ValidationError{
		Field:   "subject",
		Value:   s,
		Rule:    "subject",
		Message: fmt.Sprintf("%q is neither %s nor an item id", s, Last),
	}
}

func validatePredicate(p string) error {
	if p == PredicateLabel || p == PredicateDescription || propertyIDRegex.MatchString(p) {
		return nil
	}
	return &ValidationError{
		Field:   "predicate",
		Value:   p,
		Rule:    "predicate",
		Message: fmt.Sprintf("%q is not a property id, %s or %s", p, PredicateLabel, PredicateDescription),
	}
}

func validateEntityTarget(field, t string) error {
	if entityIDRegex.MatchString(t) {
		return nil
	}
	return &ValidationError{
		Field:   field,
		Value:   t,
		Rule:    "entity_id",
		Message: fmt.Sprintf("%q is not an item id", t),
	}
}

func validateReferenceID(field, v string) error {
	if referenceIDRegex.MatchString(v) {
		return nil
	}
	return &ValidationError{
		Field:   field,
		Value:   v,
		Rule:    "reference_id",
		Message: fmt.Sprintf("%q is not an item, property or source id", v),
	}
}

// textBreakers are the characters that would split a text literal into
// separate fields or lines.
const textBreakers = "|\t\r\n"

func validateText(field, t string) error {
	if !strings.ContainsAny(t, textBreakers) {
		return nil
	}
	return &ValidationError{
		Field:   field,
		Value:   t,
		Rule:    "text",
		Message: "text may not contain a pipe, tab or line break",
	}
}

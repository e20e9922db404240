package quickstatements

import (
	"encoding/json"
	"strings"
)

// CreateToken is the rendering of a CreateLine.
const CreateToken = "CREATE"

// Line is a single QuickStatements command.
// The set of implementations is closed: CreateLine, TextLine and EntityLine.
type Line interface {
	// Render returns the line in QuickStatements v1 syntax.
	Render() string

	isLine()
}

// Statement is implemented by the lines that carry a subject, predicate and target.
type Statement interface {
	Line
	Subject() string
	Predicate() string
	Target() string
	Qualifiers() []Qualifier
}

// CreateLine starts a new item; following lines refer to it as LAST.
type CreateLine struct{}

func (CreateLine) Render() string { return CreateToken }
func (CreateLine) isLine()        {}

func (CreateLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{Type: "create"})
}

type statement struct {
	subject    string
	predicate  string
	qualifiers []Qualifier
}

func newStatement(subject, predicate string, qualifiers []Qualifier) (statement, error) {
	if err := validateSubject(subject); err != nil {
		return statement{}, err
	}
	if err := validatePredicate(predicate); err != nil {
		return statement{}, err
	}
	qs := make([]Qualifier, 0, len(qualifiers))
	for _, q := range qualifiers {
		if q != nil {
			qs = append(qs, q)
		}
	}
	return statement{subject: subject, predicate: predicate, qualifiers: qs}, nil
}

func (s statement) Subject() string   { return s.subject }
func (s statement) Predicate() string { return s.predicate }

// Qualifiers returns a copy of the line's qualifiers in order.
func (s statement) Qualifiers() []Qualifier {
	out := make([]Qualifier, len(s.qualifiers))
	copy(out, s.qualifiers)
	return out
}

func (s statement) render(target string) string {
	parts := make([]string, 0, 3+2*len(s.qualifiers))
	parts = append(parts, s.subject, s.predicate, target)
	for _, q := range s.qualifiers {
		parts = append(parts, q.Predicate(), q.Render())
	}
	return strings.Join(parts, "|")
}

// TextLine is a statement whose target is a string literal.
type TextLine struct {
	statement
	target string
}

// NewTextLine creates a string-valued statement.
func NewTextLine(subject, predicate, target string, qualifiers ...Qualifier) (*TextLine, error) {
	s, err := newStatement(subject, predicate, qualifiers)
	if err != nil {
		return nil, err
	}
	if err := validateText("target", target); err != nil {
		return nil, err
	}
	return &TextLine{statement: s, target: target}, nil
}

func (l *TextLine) Target() string { return l.target }
func (l *TextLine) Render() string { return l.render(quote(l.target)) }
func (l *TextLine) isLine()        {}

// EntityLine is a statement whose target is a Wikidata item.
type EntityLine struct {
	statement
	target string
}

// NewEntityLine creates an item-valued statement.
func NewEntityLine(subject, predicate, target string, qualifiers ...Qualifier) (*EntityLine, error) {
	s, err := newStatement(subject, predicate, qualifiers)
	if err != nil {
		return nil, err
	}
	if err := validateEntityTarget("target", target); err != nil {
		return nil, err
	}
	return &EntityLine{statement: s, target: target}, nil
}

func (l *EntityLine) Target() string { return l.target }
func (l *EntityLine) Render() string { return l.render(l.target) }
func (l *EntityLine) isLine()        {}

type lineJSON struct {
	Type       string      `json:"type"`
	Subject    string      `json:"subject"`
	Predicate  string      `json:"predicate"`
	Target     string      `json:"target"`
	Qualifiers []Qualifier `json:"qualifiers"`
}

func (l *TextLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineJSON{
		Type:       "text",
		Subject:    l.subject,
		Predicate:  l.predicate,
		Target:     l.target,
		Qualifiers: l.Qualifiers(),
	})
}

func (l *EntityLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineJSON{
		Type:       "entity",
		Subject:    l.subject,
		Predicate:  l.predicate,
		Target:     l.target,
		Qualifiers: l.Qualifiers(),
	})
}

// Render joins the rendered lines with newlines.
func Render(lines []Line) string {
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = l.Render()
	}
	return strings.Join(rendered, "\n")
}

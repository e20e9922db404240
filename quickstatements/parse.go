package quickstatements

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseError reports a line that could not be read back into the statement model.
type ParseError struct {
	LineNumber int
	Text       string
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.LineNumber, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseLine reads a single rendered line. Tab separators are accepted as well as pipes.
func ParseLine(s string) (Line, error) {
	s = strings.TrimSpace(s)
	if s == CreateToken {
		return CreateLine{}, nil
	}

	fields := splitFields(s)
	if len(fields) < 3 {
		return nil, fmt.Errorf("expected subject, predicate and target, got %d field(s)", len(fields))
	}
	if len(fields)%2 == 0 {
		return nil, fmt.Errorf("qualifier %q has no target", fields[len(fields)-1])
	}

	var qualifiers []Qualifier
	for i := 3; i < len(fields); i += 2 {
		q, err := parseQualifier(fields[i], fields[i+1])
		if err != nil {
			return nil, err
		}
		qualifiers = append(qualifiers, q)
	}

	subject, predicate, target := fields[0], fields[1], fields[2]
	if unquoted, ok := unquote(target); ok {
		return NewTextLine(subject, predicate, unquoted, qualifiers...)
	}
	return NewEntityLine(subject, predicate, target, qualifiers...)
}

func parseQualifier(predicate, target string) (Qualifier, error) {
	if unquoted, ok := unquote(target); ok {
		return NewTextQualifier(predicate, unquoted)
	}
	if strings.HasPrefix(target, "+") {
		t, p, err := DecodeDate(target)
		if err != nil {
			return nil, err
		}
		return NewDateQualifier(predicate, t, p)
	}
	return NewEntityQualifier(predicate, target)
}

// Parse reads every non-blank line from r. It returns the lines that parsed and one
// ParseError per line that did not.
func Parse(r io.Reader) ([]Line, []*ParseError, error) {
	var (
		lines  []Line
		errs   []*ParseError
		number int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		number++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		l, err := ParseLine(text)
		if err != nil {
			errs = append(errs, &ParseError{LineNumber: number, Text: text, Err: err})
			continue
		}
		lines = append(lines, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading statements: %w", err)
	}
	return lines, errs, nil
}

// splitFields splits on | and tab outside of double quotes.
func splitFields(s string) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case (r == '|' || r == '\t') && !quoted:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, current.String())
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1], true
	}
	return "", false
}

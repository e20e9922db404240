// Package format defines the interface for statement output format plugins.
package format

import (
	"io"

	"github.com/lehigh-university-libraries/orcidator/quickstatements"
)

// Format defines the interface that all format plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "qs", "url", "json")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if this format can parse the given input
	CanParse(peek []byte) bool
}

// Parser is a format that can read statements back.
type Parser interface {
	Format

	// Parse reads input and returns the statements it holds.
	Parse(r io.Reader, opts *ParseOptions) ([]quickstatements.Line, error)
}

// Serializer is a format that can write statements to output.
type Serializer interface {
	Format

	// Serialize writes the statements to the output.
	Serialize(w io.Writer, lines []quickstatements.Line, opts *SerializeOptions) error
}

// ParseOptions contains options for parsing.
type ParseOptions struct {
	// Strict fails on the first malformed line instead of skipping it
	Strict bool

	// SourceName is an identifier for the source (for error messages)
	SourceName string
}

// SerializeOptions contains options for serialization.
type SerializeOptions struct {
	// BaseURL is the QuickStatements instance links point at
	BaseURL string

	// Pretty enables pretty-printing (for JSON)
	Pretty bool
}

// NewParseOptions creates ParseOptions with defaults.
func NewParseOptions() *ParseOptions {
	return &ParseOptions{}
}

// NewSerializeOptions creates SerializeOptions with defaults.
func NewSerializeOptions() *SerializeOptions {
	return &SerializeOptions{
		BaseURL: quickstatements.DefaultBaseURL,
		Pretty:  true,
	}
}

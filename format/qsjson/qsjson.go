// Package qsjson provides a format plugin writing statements as JSON objects.
package qsjson

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/lehigh-university-libraries/orcidator/format"
	"github.com/lehigh-university-libraries/orcidator/quickstatements"
)

// Format implements the JSON statement format.
type Format struct{}

var (
	_ format.Format     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "json"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "JSON array of typed statements"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like a statement array.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	return len(peek) > 0 && peek[0] == '[' && bytes.Contains(peek, []byte(`"type"`))
}

// Serialize writes the statements as a JSON array.
func (f *Format) Serialize(w io.Writer, lines []quickstatements.Line, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	if lines == nil {
		lines = []quickstatements.Line{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(lines)
}

func init() {
	format.Register(&Format{})
}

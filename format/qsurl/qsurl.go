// Package qsurl provides a format plugin for QuickStatements v1 editor links.
package qsurl

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/orcidator/format"
	"github.com/lehigh-university-libraries/orcidator/quickstatements"
)

// Format implements the QuickStatements link format.
type Format struct{}

var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "url"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "QuickStatements v1 editor link"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"url"}
}

// CanParse returns true if the input is a QuickStatements v1 link.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	return bytes.HasPrefix(peek, []byte("http")) && bytes.Contains(peek, []byte("#/v1="))
}

// Parse decodes a link back into statements.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]quickstatements.Line, error) {
	if opts == nil {
		opts = format.NewParseOptions()
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading link: %w", err)
	}
	text, err := quickstatements.ParseURL(string(data))
	if err != nil {
		return nil, err
	}

	lines, parseErrs, err := quickstatements.Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	if len(parseErrs) > 0 && opts.Strict {
		return nil, fmt.Errorf("%s: %w", opts.SourceName, parseErrs[0])
	}
	return lines, nil
}

// Serialize writes a single link holding every statement.
func (f *Format) Serialize(w io.Writer, lines []quickstatements.Line, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	base := opts.BaseURL
	if base == "" {
		base = quickstatements.DefaultBaseURL
	}
	_, err := fmt.Fprintln(w, quickstatements.TextURL(base, quickstatements.Render(lines)))
	return err
}

func init() {
	format.Register(&Format{})
}

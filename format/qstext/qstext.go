// Package qstext provides a format plugin for QuickStatements v1 text.
package qstext

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/orcidator/format"
	"github.com/lehigh-university-libraries/orcidator/quickstatements"
)

// Format implements QuickStatements v1 text.
type Format struct{}

var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "qs"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "QuickStatements v1 text (one statement per line)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"qs", "txt", "tsv"}
}

// CanParse returns true if the first non-blank line reads as a statement.
func (f *Format) CanParse(peek []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(peek))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		_, err := quickstatements.ParseLine(string(line))
		return err == nil
	}
	return false
}

// Parse reads statements. Malformed lines are skipped with a warning unless opts.Strict is set.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]quickstatements.Line, error) {
	if opts == nil {
		opts = format.NewParseOptions()
	}

	lines, parseErrs, err := quickstatements.Parse(r)
	if err != nil {
		return nil, err
	}
	if len(parseErrs) > 0 && opts.Strict {
		return nil, fmt.Errorf("%s: %w", opts.SourceName, parseErrs[0])
	}
	for _, perr := range parseErrs {
		slog.Warn("skipping malformed statement", "source", opts.SourceName, "line", perr.LineNumber, "err", perr.Err)
	}
	return lines, nil
}

// Serialize writes one rendered statement per line.
func (f *Format) Serialize(w io.Writer, lines []quickstatements.Line, opts *format.SerializeOptions) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := fmt.Fprintln(bw, l.Render()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func init() {
	format.Register(&Format{})
}

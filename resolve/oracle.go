package resolve

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"github.com/lehigh-university-libraries/orcidator/wikidata"
)

// SkipInput is the answer that leaves a label unresolved.
const SkipInput = "-"

// Interactive asks a human to confirm or override a search suggestion.
type Interactive struct {
	searcher Searcher
	reader   *bufio.Reader
	out      io.Writer
}

// NewInteractive creates an oracle that prints prompts to out and reads answers from in.
func NewInteractive(searcher Searcher, in io.Reader, out io.Writer) *Interactive {
	return &Interactive{
		searcher: searcher,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Decide implements Oracle. An empty line accepts the suggestion, "-" skips,
// anything else is taken as the answer.
func (o *Interactive) Decide(ctx context.Context, category, label string) (string, error) {
	suggestion, err := o.searcher.Search(ctx, label)
	if err != nil {
		return "", err
	}

	bold := color.New(color.Bold)
	fmt.Fprintf(o.out, "\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	bold.Fprintf(o.out, "Unknown %s: %s\n", category, label)
	if suggestion.ID == wikidata.NoMatch {
		color.New(color.FgYellow).Fprintln(o.out, "  No suggestion found")
	} else {
		fmt.Fprintf(o.out, "  Suggestion: %s (%s)\n", color.GreenString(suggestion.ID), suggestion.Label)
		if suggestion.Description != "" {
			fmt.Fprintf(o.out, "  Description: %s\n", suggestion.Description)
		}
		fmt.Fprintf(o.out, "  %s\n", color.CyanString(suggestion.URL))
	}

	def := suggestion.ID
	if def == wikidata.NoMatch {
		def = ""
	}
	fmt.Fprintf(o.out, "\nEnter QID, %q for no entity or %q to skip [%s]: ", NoRole, SkipInput, def)

	input, err := o.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	input = strings.TrimSpace(input)
	if errors.Is(err, io.EOF) && input == "" {
		slog.Warn("no input available, leaving label unresolved", "category", category, "label", label)
		return "", nil
	}

	switch input {
	case "":
		return def, nil
	case SkipInput:
		return "", nil
	default:
		return input, nil
	}
}

// NonInteractive decides without prompting. With AcceptSuggestions it takes the
// search suggestion when there is one. With Strict an undecided label is an error.
type NonInteractive struct {
	Searcher          Searcher
	AcceptSuggestions bool
	Strict            bool
}

// Decide implements Oracle.
func (o *NonInteractive) Decide(ctx context.Context, category, label string) (string, error) {
	if o.AcceptSuggestions && o.Searcher != nil {
		suggestion, err := o.Searcher.Search(ctx, label)
		if err != nil {
			return "", err
		}
		if suggestion.ID != wikidata.NoMatch {
			slog.Info("accepted search suggestion", "category", category, "label", label, "id", suggestion.ID, "suggestionLabel", suggestion.Label)
			return suggestion.ID, nil
		}
	}

	if o.Strict {
		return "", fmt.Errorf("%s %q: %w", category, label, ErrUnresolved)
	}
	slog.Warn("leaving label unresolved", "category", category, "label", label)
	return "", nil
}

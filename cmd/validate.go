package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/orcidator/format"
	"github.com/lehigh-university-libraries/orcidator/quickstatements"
)

var (
	validateFormat  string
	validateVerbose bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check QuickStatements without uploading them",
	Long: `Read QuickStatements and report every statement that is not well-formed:
bad subjects, predicates or item ids, unquoted text, malformed dates or
qualifiers without a value.

The format is detected from the file extension or content unless --format is
given. Input defaults to stdin.

Examples:
  orcidator validate batch.qs
  orcidator import 0000-0003-4423-4370 | orcidator validate
  orcidator validate link.txt --format url`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "", "Input format: qs or url (default: detect)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show a summary of the statements")
}

func runValidate(cmd *cobra.Command, args []string) (err error) {
	var input io.Reader
	var inputName string

	if len(args) == 1 {
		f, openErr := os.Open(args[0])
		if openErr != nil {
			return fmt.Errorf("opening input file: %w", openErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing input file: %w", cerr)
			}
		}()
		input = f
		inputName = args[0]
	} else {
		input = os.Stdin
		inputName = "stdin"
	}

	br := bufio.NewReader(input)
	name := validateFormat
	if name == "" {
		peek, _ := br.Peek(4096)
		f, detectErr := format.Detect(inputName, peek)
		if detectErr != nil {
			name = "qs"
		} else {
			name = f.Name()
		}
	}

	var lines []quickstatements.Line
	var parseErrs []*quickstatements.ParseError
	switch name {
	case "qs":
		lines, parseErrs, err = quickstatements.Parse(br)
		if err != nil {
			return err
		}
	default:
		parser, perr := format.GetParser(name)
		if perr != nil {
			return fmt.Errorf("unknown format %q: %w", name, perr)
		}
		lines, err = parser.Parse(br, &format.ParseOptions{Strict: true, SourceName: inputName})
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	for _, perr := range parseErrs {
		fmt.Printf("✗ %s:%d: %v\n    %s\n", inputName, perr.LineNumber, perr.Err, truncate(perr.Text, 100))
	}
	if len(parseErrs) > 0 {
		return fmt.Errorf("%d malformed statements in %s", len(parseErrs), inputName)
	}

	fmt.Printf("✓ Valid: %d statements in %s\n", len(lines), inputName)

	if validateVerbose {
		counts := map[string]int{}
		var order []string
		for _, l := range lines {
			key := quickstatements.CreateToken
			if s, ok := l.(quickstatements.Statement); ok {
				key = s.Predicate()
			}
			if counts[key] == 0 {
				order = append(order, key)
			}
			counts[key]++
		}
		fmt.Println("\nStatements by predicate:")
		for _, key := range order {
			fmt.Printf("  %-8s %d\n", key, counts[key])
		}
	}

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/orcidator/orcid"
)

var importOutput outputOptions

var importCmd = &cobra.Command{
	Use:   "import <orcid>",
	Short: "Generate QuickStatements for one ORCID profile",
	Long: `Fetch a public ORCID profile and write the QuickStatements that add it to
Wikidata.

When no item carries the ORCID iD yet, the batch creates one (CREATE/LAST).
Otherwise statements are added to the existing item, including authorship
of papers already on Wikidata.

Output defaults to stdout in the configured format (qs unless set).

Examples:
  orcidator import 0000-0003-4423-4370
  orcidator import https://orcid.org/0000-0003-4423-4370 -o hoyt.qs
  orcidator import 0000-0003-4423-4370 -f url --open-browser
  orcidator import 0000-0003-4423-4370 --upload --batch-name "ORCID import"`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func addOutputFlags(cmd *cobra.Command, opts *outputOptions) {
	cmd.Flags().StringVarP(&opts.file, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: qs, url or json")
	cmd.Flags().BoolVarP(&opts.openBrowser, "open-browser", "b", false, "Open the statements in QuickStatements")
	cmd.Flags().BoolVarP(&opts.upload, "upload", "u", false, "Submit the statements as a QuickStatements batch")
	cmd.Flags().StringVar(&opts.batchName, "batch-name", "", "Name of the uploaded batch")
}

func init() {
	addOutputFlags(importCmd, &importOutput)
}

func runImport(cmd *cobra.Command, args []string) error {
	id := orcid.Normalize(args[0])
	if err := orcid.Validate(id); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	lines, err := a.assembler.Assemble(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("importing %s: %w", id, err)
	}
	return a.emit(cmd.Context(), lines, importOutput)
}

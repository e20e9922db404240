package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var importListOutput outputOptions

var importListCmd = &cobra.Command{
	Use:   "import-list <file>",
	Short: "Generate QuickStatements for a list of ORCID profiles",
	Long: `Read one ORCID iD per line and write the statements for all of them as a
single batch. Blank lines and lines starting with # are ignored.

Profiles are processed one after another. A profile that fails is reported
and skipped; the command exits non-zero if any did.

Examples:
  orcidator import-list orcids.txt -o batch.qs
  orcidator import-list orcids.txt --non-interactive -f url`,
	Args: cobra.ExactArgs(1),
	RunE: runImportList,
}

func init() {
	addOutputFlags(importListCmd, &importListOutput)
}

func runImportList(cmd *cobra.Command, args []string) (err error) {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening list: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing list: %w", cerr)
		}
	}()

	ids, err := readIDs(f)
	if err != nil {
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
	return a.runBatch(cmd, ids, importListOutput)
}

// runBatch assembles every iD, writes what succeeded and reports the failures.
func (a *app) runBatch(cmd *cobra.Command, ids []string, opts outputOptions) error {
	lines, failed := a.assembleAll(cmd.Context(), ids)
	if len(lines) > 0 {
		if err := a.emit(cmd.Context(), lines, opts); err != nil {
			return err
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d profiles failed: %s", len(failed), len(ids), strings.Join(failed, ", "))
	}
	return nil
}

// readIDs returns the non-blank lines of r that are not # comments.
func readIDs(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading list: %w", err)
	}
	return ids, nil
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var eventOutput outputOptions

var eventCmd = &cobra.Command{
	Use:   "event <qid>",
	Short: "Generate QuickStatements for every speaker of an event",
	Long: `Look up the speakers (P823) of a Wikidata event that have an ORCID iD
(P496) and import each of their profiles, as import-list does.

Examples:
  orcidator event Q106688590
  orcidator event Q106688590 --non-interactive --accept-suggestions -o event.qs`,
	Args: cobra.ExactArgs(1),
	RunE: runEvent,
}

func init() {
	addOutputFlags(eventCmd, &eventOutput)
}

func runEvent(cmd *cobra.Command, args []string) error {
	event := strings.ToUpper(strings.TrimSpace(args[0]))

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	ids, err := a.graph.EventSpeakerORCIDs(cmd.Context(), event)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintf(os.Stderr, "No speakers with an ORCID iD found for %s\n", event)
		return nil
	}
	fmt.Fprintf(os.Stderr, "Found %d speakers for %s\n", len(ids), event)

	return a.runBatch(cmd, ids, eventOutput)
}

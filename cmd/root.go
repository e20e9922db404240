// Package cmd provides CLI commands for orcidator.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/orcidator/config"
)

var (
	configDir         string
	dictionariesDir   string
	nonInteractive    bool
	acceptSuggestions bool
	strictResolution  bool
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "orcidator",
	Short: "Import ORCID profiles into Wikidata",
	Long: `Orcidator turns a researcher's public ORCID profile into Wikidata
QuickStatements.

Institutions, roles and fields of work are matched to Wikidata items through
local lookup tables (the dictionaries), registry identifiers such as GRID and
ROR, and, for anything still unknown, an interactive prompt backed by Wikidata
search. Answers given at the prompt are saved to the dictionaries.

Examples:
  orcidator import 0000-0003-4423-4370
  orcidator import 0000-0003-4423-4370 -f url --open-browser
  orcidator import-list orcids.txt -o batch.qs
  orcidator event Q106688590 --non-interactive --accept-suggestions
  orcidator dictionaries update institutions
  orcidator validate batch.qs`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configDir != "" {
			config.SetConfigDir(configDir)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the persistent flags over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dictionaries") {
		cfg.Dictionaries = dictionariesDir
	}
	if flags.Changed("non-interactive") {
		cfg.Resolution.NonInteractive = nonInteractive
	}
	if flags.Changed("accept-suggestions") {
		cfg.Resolution.AcceptSuggestions = acceptSuggestions
	}
	if flags.Changed("strict") {
		cfg.Resolution.Strict = strictResolution
	}
	return cfg, nil
}

func init() {
	setupLogger()

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default: $HOME/.orcidator)")
	rootCmd.PersistentFlags().StringVar(&dictionariesDir, "dictionaries", "", "Directory holding the lookup tables")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Never prompt for unknown labels")
	rootCmd.PersistentFlags().BoolVar(&acceptSuggestions, "accept-suggestions", false, "With --non-interactive, accept the top Wikidata search hit")
	rootCmd.PersistentFlags().BoolVar(&strictResolution, "strict", false, "With --non-interactive, fail on labels that cannot be resolved")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(importListCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(dictionariesCmd)
	rootCmd.AddCommand(validateCmd)
}

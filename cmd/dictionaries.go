package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/orcidator/lookup"
	"github.com/lehigh-university-libraries/orcidator/wikidata"
)

// dictionarySource describes how a lookup table is refreshed from Wikidata.
type dictionarySource struct {
	Ancestors   []string
	Clause      string
	Description string
}

var dictionarySources = map[string]dictionarySource{
	lookup.CategoryInstitutions: {
		Ancestors:   []string{"Q4671277"},
		Clause:      "?item wdt:P31/wdt:P279* ?ancestor .",
		Description: "instances of academic institution",
	},
	lookup.CategoryFields: {
		Ancestors:   []string{"Q11862829"},
		Clause:      "?item wdt:P31/wdt:P279* ?ancestor .",
		Description: "instances of academic discipline",
	},
	lookup.CategoryRole: {
		Ancestors:   []string{"Q189533"},
		Clause:      "?item wdt:P279* ?ancestor .",
		Description: "subclasses of academic degree",
	},
}

var dictionariesCmd = &cobra.Command{
	Use:   "dictionaries",
	Short: "Manage the lookup tables",
	Long: `List, inspect and refresh the lookup tables that map labels found in
ORCID profiles to Wikidata items. Each table is a JSON object stored as
<category>.json in the dictionaries directory.`,
}

var dictionariesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lookup tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDictionaries(cmd)
		if err != nil {
			return err
		}

		categories, err := store.Categories()
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			fmt.Printf("No lookup tables in %s\n", store.Dir())
			return nil
		}

		fmt.Printf("Lookup tables in %s:\n", store.Dir())
		for _, category := range categories {
			entries, err := store.Entries(category)
			if err != nil {
				return err
			}
			desc := ""
			if src, ok := dictionarySources[category]; ok {
				desc = " - " + src.Description
			}
			fmt.Printf("  %-15s %6d entries%s\n", category, len(entries), desc)
		}
		return nil
	},
}

var dictionariesShowCmd = &cobra.Command{
	Use:   "show <category>",
	Short: "Print a lookup table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDictionaries(cmd)
		if err != nil {
			return err
		}

		entries, err := store.Entries(args[0])
		if err != nil {
			return err
		}
		out, err := lookup.Marshal(entries)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

var dictionariesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the bundled lookup tables",
	Long:  `Write the lookup tables shipped with orcidator into the dictionaries directory. Existing tables are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		written, err := lookup.Seed(cfg.Dictionaries)
		if err != nil {
			return err
		}
		if len(written) == 0 {
			fmt.Printf("All lookup tables already exist in %s\n", cfg.Dictionaries)
			return nil
		}
		for _, category := range written {
			fmt.Printf("Created %s\n", lookup.NewFileStore(cfg.Dictionaries).Path(category))
		}
		return nil
	},
}

var dictionariesUpdateCmd = &cobra.Command{
	Use:   "update [category...]",
	Short: "Refresh lookup tables from Wikidata",
	Long: `Add every Wikidata item under the category's ancestor classes to the lookup
table. Existing entries keep their ids unless Wikidata returns the same label.

Categories: institutions, fields, role. Without arguments all are refreshed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}

		categories := args
		if len(categories) == 0 {
			for category := range dictionarySources {
				categories = append(categories, category)
			}
			sort.Strings(categories)
		}

		for _, category := range categories {
			src, ok := dictionarySources[category]
			if !ok {
				return fmt.Errorf("no Wikidata source for category %q", category)
			}
			n, err := updateDictionary(cmd, a.graph, a.store, category, src)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s: %d labels from Wikidata\n", category, n)
		}
		return nil
	},
}

func updateDictionary(cmd *cobra.Command, graph *wikidata.Client, store *lookup.FileStore, category string, src dictionarySource) (int, error) {
	labels, err := graph.AncestorLabels(cmd.Context(), src.Ancestors, src.Clause)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", category, err)
	}
	if err := store.Merge(category, labels); err != nil {
		return 0, err
	}
	return len(labels), nil
}

func openDictionaries(cmd *cobra.Command) (*lookup.FileStore, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return lookup.NewFileStore(cfg.Dictionaries), nil
}

func init() {
	dictionariesCmd.AddCommand(dictionariesListCmd)
	dictionariesCmd.AddCommand(dictionariesShowCmd)
	dictionariesCmd.AddCommand(dictionariesInitCmd)
	dictionariesCmd.AddCommand(dictionariesUpdateCmd)
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/lehigh-university-libraries/orcidator/assemble"
	"github.com/lehigh-university-libraries/orcidator/config"
	"github.com/lehigh-university-libraries/orcidator/format"
	"github.com/lehigh-university-libraries/orcidator/lookup"
	"github.com/lehigh-university-libraries/orcidator/orcid"
	"github.com/lehigh-university-libraries/orcidator/quickstatements"
	"github.com/lehigh-university-libraries/orcidator/resolve"
	"github.com/lehigh-university-libraries/orcidator/wikidata"
)

// app wires the collaborators of a run from the configuration.
type app struct {
	cfg       *config.Config
	store     *lookup.FileStore
	graph     *wikidata.Client
	searcher  *wikidata.Searcher
	assembler *assemble.Assembler
}

func newApp(cfg *config.Config) (*app, error) {
	written, err := lookup.Seed(cfg.Dictionaries)
	if err != nil {
		return nil, fmt.Errorf("preparing dictionaries: %w", err)
	}
	if len(written) > 0 {
		slog.Info("created dictionaries", "dir", cfg.Dictionaries, "categories", written)
	}
	store := lookup.NewFileStore(cfg.Dictionaries)

	graph := wikidata.NewClient(cfg.Wikidata.QueryInterval)
	if cfg.Wikidata.Endpoint != "" {
		graph.Endpoint = cfg.Wikidata.Endpoint
	}
	searcher := wikidata.NewSearcher()
	if cfg.Wikidata.SearchEndpoint != "" {
		searcher.Endpoint = cfg.Wikidata.SearchEndpoint
	}

	profiles := orcid.NewClient()
	if cfg.ORCID.BaseURL != "" {
		profiles.BaseURL = cfg.ORCID.BaseURL
	}
	if cfg.ORCID.MaxTries > 0 {
		profiles.MaxTries = cfg.ORCID.MaxTries
	}

	if cfg.UserAgent != "" {
		graph.UserAgent = cfg.UserAgent
		searcher.UserAgent = cfg.UserAgent
		profiles.UserAgent = cfg.UserAgent
	} else {
		profiles.UserAgent = wikidata.DefaultUserAgent
	}

	var oracle resolve.Oracle
	if cfg.Resolution.NonInteractive {
		oracle = &resolve.NonInteractive{
			Searcher:          searcher,
			AcceptSuggestions: cfg.Resolution.AcceptSuggestions,
			Strict:            cfg.Resolution.Strict,
		}
	} else {
		oracle = resolve.NewInteractive(searcher, os.Stdin, os.Stderr)
	}
	resolver := resolve.New(store, graph, oracle)

	return &app{
		cfg:       cfg,
		store:     store,
		graph:     graph,
		searcher:  searcher,
		assembler: assemble.New(profiles, graph, resolver),
	}, nil
}

// assembleAll runs the pipeline for each iD in turn. Failures are logged and
// collected; the statements of the successful iDs are returned together.
func (a *app) assembleAll(ctx context.Context, ids []string) ([]quickstatements.Line, []string) {
	var (
		lines  []quickstatements.Line
		failed []string
	)
	for i, raw := range ids {
		id := orcid.Normalize(raw)
		slog.Info("processing ORCID", "orcid", id, "n", i+1, "of", len(ids))

		if err := orcid.Validate(id); err != nil {
			slog.Error("skipping ORCID", "orcid", raw, "err", err)
			failed = append(failed, raw)
			continue
		}
		got, err := a.assembler.Assemble(ctx, id)
		if err != nil {
			slog.Error("import failed", "orcid", id, "err", err)
			failed = append(failed, id)
			continue
		}
		lines = append(lines, got...)
	}
	return lines, failed
}

// outputOptions are the flags shared by the commands producing statements.
type outputOptions struct {
	file        string
	format      string
	openBrowser bool
	upload      bool
	batchName   string
}

// emit writes the statements in the requested format, then optionally opens
// them in QuickStatements and uploads them as a batch.
func (a *app) emit(ctx context.Context, lines []quickstatements.Line, opts outputOptions) (err error) {
	formatName := opts.format
	if formatName == "" {
		formatName = a.cfg.Format
	}
	serializer, err := format.GetSerializer(formatName)
	if err != nil {
		return fmt.Errorf("unknown output format %q: %w", formatName, err)
	}

	var output io.Writer
	if opts.file != "" {
		f, err := os.Create(opts.file)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		output = f
	} else {
		output = os.Stdout
	}

	serializeOpts := format.NewSerializeOptions()
	if a.cfg.QuickStatements.BaseURL != "" {
		serializeOpts.BaseURL = a.cfg.QuickStatements.BaseURL
	}
	if err := serializer.Serialize(output, lines, serializeOpts); err != nil {
		return fmt.Errorf("serializing output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d statements\n", len(lines))

	if opts.openBrowser {
		link := quickstatements.TextURL(serializeOpts.BaseURL, quickstatements.Render(lines))
		if err := openBrowser(link); err != nil {
			slog.Warn("could not open browser", "err", err)
		}
	}

	if opts.upload {
		client := quickstatements.NewClient(a.cfg.QuickStatements.Username, a.cfg.QuickStatements.Token)
		if a.cfg.QuickStatements.BaseURL != "" {
			client.BaseURL = a.cfg.QuickStatements.BaseURL
		}
		client.UserAgent = a.graph.UserAgent

		batchName := opts.batchName
		if batchName == "" {
			batchName = a.cfg.QuickStatements.BatchName
		}
		batch, err := client.Post(ctx, lines, batchName)
		if err != nil {
			return fmt.Errorf("uploading batch: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Submitted batch %d: %s\n", batch.ID, batch.URL)
	}

	return nil
}

func openBrowser(link string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", link)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		c = exec.Command("xdg-open", link)
	}
	return c.Start()
}

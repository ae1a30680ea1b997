package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jask/fintrack/internal/service"
)

var (
	importFormat   string
	skipDuplicates bool
)

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Import bank CSV exports into the ledger",
	Long: `Import bank CSV exports into the ledger.

Negative amounts become expenses and positive amounts income. Rows are
validated like the add form; invalid rows are reported and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "generic", "Export layout: generic or anz")
	importCmd.Flags().BoolVar(&skipDuplicates, "skip-duplicates", false, "Skip rows that look like transactions already in the ledger")
}

func runImport(cmd *cobra.Command, files []string) error {
	ctx := cmd.Context()
	format, err := service.ParseFormat(importFormat)
	if err != nil {
		return err
	}
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	if err := e.loadInto(ctx); err != nil {
		return err
	}
	ingest := service.NewIngestService(e.log)

	parsed := make([]service.ParseResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()
			res, err := ingest.Parse(gctx, f, format)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			parsed[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	total := 0
	for i, path := range files {
		for _, perr := range parsed[i].Errors {
			fmt.Fprintf(out, "%s: %v\n", path, perr)
		}
		res := ingest.Apply(e.store, parsed[i].Candidates, skipDuplicates)
		for _, aerr := range res.Errors {
			fmt.Fprintf(out, "%s: %v\n", path, aerr)
		}
		fmt.Fprintf(out, "%s: imported %d, skipped %d, rejected %d (batch %s)\n",
			path, res.Imported, res.Skipped, len(parsed[i].Errors)+len(res.Errors), res.BatchID)
		total += res.Imported
	}
	if total == 0 {
		return nil
	}
	if err := e.persist.Save(ctx, e.store.Canonical()); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

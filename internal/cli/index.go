package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var indexOut string

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [paths...]",
		Short: "Segment documents and write chunk records",
		Long: `Segment the given .txt files, directories, or globs into semantically
coherent chunks, build the vector index, and write one JSON chunk record per
line to the output file.

Examples:
  corpusprep index docs/
  corpusprep index --out corpus.jsonl notes/*.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIndex,
	}
	cmd.Flags().StringVarP(&indexOut, "out", "o", "", "chunk records output path (overrides config)")
	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)

	svc, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	stats, err := svc.IngestDocuments(args)
	if err != nil {
		return err
	}

	out := indexOut
	if out == "" {
		out = cfg.Output.RecordsPath
	}
	if err := svc.WriteRecords(out); err != nil {
		return fmt.Errorf("writing chunk records: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", stats, out)
	return nil
}

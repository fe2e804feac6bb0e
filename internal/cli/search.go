package cli

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"corpusprep/internal/tui"
)

func newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [paths...]",
		Short: "Index documents and query them interactively",
		Long: `Segment and index the given .txt files, directories, or globs, then open
an interactive prompt that answers free-text queries with the closest chunks.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	m := tui.New(svc, stats.String())
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return err
	}
	return nil
}

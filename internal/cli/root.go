package cli

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"corpusprep/internal/config"
	"corpusprep/internal/embedding"
	"corpusprep/internal/embedding/openai"
	"corpusprep/internal/embedding/tfidf"
	"corpusprep/internal/index"
	"corpusprep/internal/segmenter"
	"corpusprep/internal/service"
	"corpusprep/internal/splitter"
)

var cfgPath string

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "corpusprep",
		Short: "Semantic corpus segmentation and retrieval",
		Long: `corpusprep prepares a text corpus for question/answer dataset construction.
It splits documents into semantically coherent chunks using sentence-embedding
similarity and indexes the chunks for nearest-neighbor retrieval.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"config file path (default: ./config.yaml, then ~/.config/corpusprep/config.yaml)")
	root.AddCommand(newIndexCommand())
	root.AddCommand(newSearchCommand())
	root.AddCommand(newVersionCommand(version))
	return root
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			if version == "" {
				version = "dev"
			}
			fmt.Printf("corpusprep %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(cfgPath)
}

// buildService assembles the pipeline from configuration.
func buildService(cfg *config.AppConfig, logger *log.Logger) (*service.Service, error) {
	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: cfg.Embedder.OpenAI.BatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		emb = client
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	sp := splitter.NewSentence()
	sb := segmenter.NewBuilder(emb, cfg.Segmenter.SimilarityThreshold, logger)
	ix := index.New(emb, logger)
	return service.New(sp, sb, emb, ix, logger, service.Options{
		TopK:              cfg.Search.TopK,
		IncludeEmbeddings: cfg.Output.IncludeEmbeddings,
	}), nil
}

package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"docqa/config"
	"docqa/internal/adapter/chunker"
	"docqa/internal/adapter/embedding"
	"docqa/internal/adapter/generation"
	"docqa/internal/port"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Grounded question answering over a private document corpus",
	Long: `docqa indexes a directory of documents into a vector index and answers
natural-language questions using only the retrieved passages.

Example usage:
  docqa build                      # Chunk, embed and index ./documents
  docqa query -q "payment terms"   # Ask a question against the index
  docqa serve                      # Expose the query API over HTTP`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.LogLevel(),
		}))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docqa.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

// newEmbedder constructs the configured embedding provider.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.BaseURL, cfg.Embedding.Model), nil
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BatchSize)
	case "hash":
		return embedding.NewHashEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// newGenerator constructs the generation backend client.
func newGenerator(cfg *config.Config) port.Generator {
	return generation.NewOllamaClient(
		cfg.Generation.BaseURL,
		cfg.Generation.Model,
		os.Getenv(cfg.Generation.APIKeyEnv),
		cfg.GenerationTimeout(),
	)
}

// newChunker constructs the chunker from the configured policy.
func newChunker(cfg *config.Config) port.Chunker {
	return chunker.NewWindowChunker(chunker.Params{
		ChunkSize:   cfg.Chunking.ChunkSize,
		Overlap:     cfg.Chunking.Overlap,
		MinChars:    cfg.Chunking.MinChunkChars,
		MaxDocChars: cfg.Chunking.MaxDocChars,
		MaxPerDoc:   cfg.Chunking.MaxChunksPerDoc,
	}, logger)
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docqa/config"
	"docqa/internal/adapter/extractor"
	"docqa/internal/adapter/fs"
	"docqa/internal/adapter/store"
	"docqa/internal/usecase"
)

var buildCmd = &cobra.Command{
	Use:   "build [documents-dir]",
	Short: "Chunk, embed and index a document directory",
	Long: `Build the vector index from a directory of documents. The persisted
index lives in .docqa/index.db under the root directory and fully replaces
any previous index.

Examples:
  docqa build                  # Index ./documents
  docqa build /path/to/docs    # Index a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	docsDir := cfg.Documents.Dir
	if len(args) > 0 {
		docsDir = args[0]
	}
	if !filepath.IsAbs(docsDir) {
		docsDir = filepath.Join(rootDir, docsDir)
	}

	info, err := os.Stat(docsDir)
	if err != nil {
		return fmt.Errorf("documents directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", docsDir)
	}

	if err := config.EnsureStateDir(rootDir); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	st, err := store.Open(config.StorePath(rootDir))
	if err != nil {
		return fmt.Errorf("failed to open index store: %w", err)
	}
	defer st.Close()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	buildUC := usecase.NewBuildUseCase(
		fs.NewWalker(cfg.Documents.Includes, cfg.Documents.Excludes),
		extractor.Default(),
		newChunker(cfg),
		embedder,
		st,
		cfg.Chunking.MaxTotalChunks,
		cfg.Embedding.BatchSize,
		logger,
	)

	fmt.Printf("Scanning %s...\n", docsDir)

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Embedding"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	result, err := buildUC.Build(cmd.Context(), docsDir, progress)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("\nBuild complete:\n")
	fmt.Printf("  Documents processed: %d\n", result.DocsProcessed)
	fmt.Printf("  Documents skipped:   %d\n", result.DocsSkipped)
	fmt.Printf("  Chunks indexed:      %d\n", result.ChunksCreated)
	fmt.Printf("  Embedding model:     %s (dim %d)\n", embedder.ModelName(), embedder.Dimension())

	if len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Printf("\nIndex stored at: %s\n", config.StorePath(rootDir))
	return nil
}

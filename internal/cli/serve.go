package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docqa/config"
	"docqa/internal/adapter/extractor"
	"docqa/internal/adapter/fs"
	"docqa/internal/adapter/store"
	"docqa/internal/server"
	"docqa/internal/usecase"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question-answering API over HTTP",
	Long: `Load the persisted index (building it first when absent) and expose
the query API.

Routes:
  POST /api/query   {"query": "...", "top_k": 3}
  GET  /api/health
  GET  /api/stats`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
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

	corpus := usecase.NewCorpusHandle()

	idx, chunks, ok, err := st.Load()
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}
	if ok {
		corpus.Swap(idx, chunks)
		logger.Info("index loaded", "chunks", len(chunks))
	} else {
		docsDir := cfg.Documents.Dir
		if !filepath.IsAbs(docsDir) {
			docsDir = filepath.Join(rootDir, docsDir)
		}
		logger.Info("no index found, building", "documents", docsDir)

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
		result, err := buildUC.Build(cmd.Context(), docsDir, nil)
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
		corpus.Swap(result.Index, result.Chunks)
		logger.Info("index built", "chunks", result.ChunksCreated)
	}

	retrieveUC := usecase.NewRetrieveUseCase(embedder, corpus, logger)
	answerUC := usecase.NewAnswerUseCase(newGenerator(cfg), cfg.GenerationTimeout(), logger)
	svc := usecase.NewService(retrieveUC, answerUC, corpus, embedder, cfg.Retrieve.TopK)

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := server.New(addr, svc, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

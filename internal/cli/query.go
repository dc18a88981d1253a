package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docqa/config"
	"docqa/internal/adapter/store"
	"docqa/internal/domain"
	"docqa/internal/usecase"
)

var (
	queryText     string
	queryTopK     int
	queryJSON     bool
	queryRetrieve bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Ask a question against the indexed documents",
	Long: `Retrieve the most relevant chunks for a question and generate a
grounded answer from them.

Examples:
  docqa query -q "When must invoices be submitted?"
  docqa query -q "payment terms" -k 5 --json
  docqa query -q "warranty period" --retrieve-only`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "question to ask (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().BoolVar(&queryRetrieve, "retrieve-only", false, "print retrieved chunks without calling the generation backend")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	dbPath := config.StorePath(rootDir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("%w. Run 'docqa build' first", domain.ErrNoIndex)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	idx, chunks, ok, err := st.Load()
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w. Run 'docqa build' first", domain.ErrNoIndex)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	corpus := usecase.NewCorpusHandle()
	corpus.Swap(idx, chunks)

	retrieveUC := usecase.NewRetrieveUseCase(embedder, corpus, logger)

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	if queryRetrieve {
		results, err := retrieveUC.Retrieve(cmd.Context(), queryText, topK)
		if err != nil {
			return fmt.Errorf("retrieval failed: %w", err)
		}
		if queryJSON {
			output, _ := json.MarshalIndent(results, "", "  ")
			fmt.Println(string(output))
			return nil
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		for i, r := range results {
			fmt.Printf("--- [%d] %s (score: %.4f) ---\n", i+1, r.Source, r.Score)
			fmt.Println(r.Text)
			fmt.Println()
		}
		return nil
	}

	answerUC := usecase.NewAnswerUseCase(newGenerator(cfg), cfg.GenerationTimeout(), logger)
	svc := usecase.NewService(retrieveUC, answerUC, corpus, embedder, cfg.Retrieve.TopK)

	resp, err := svc.Query(cmd.Context(), queryText, topK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Question: %s\n\n%s\n", resp.Query, resp.Answer)
	if len(resp.Context) > 0 {
		fmt.Printf("\nSources:\n")
		for _, r := range resp.Context {
			fmt.Printf("  - %s (score: %.4f)\n", r.Source, r.Score)
		}
	}
	if !resp.Grounded {
		fmt.Println("\n(answer was not grounded in retrieved context)")
	}
	return nil
}

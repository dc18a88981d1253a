package usecase

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"docqa/internal/domain"
	"docqa/internal/port"
)

//go:embed templates/grounded_prompt.txt
var promptTemplates embed.FS

var groundedPrompt = template.Must(
	template.ParseFS(promptTemplates, "templates/grounded_prompt.txt"))

// NoContextAnswer is returned when retrieval produced nothing to ground
// the answer on. The generation backend is not called in that case.
const NoContextAnswer = "I couldn't find relevant information in the documents to answer your question."

// AnswerUseCase builds a grounding-enforced prompt from retrieved chunks,
// calls the generation backend and classifies the result. Every backend
// failure is converted into a descriptive answer string; the caller always
// receives a well-formed Answer, never an error.
type AnswerUseCase struct {
	generator port.Generator
	timeout   time.Duration
	logger    *slog.Logger
}

func NewAnswerUseCase(generator port.Generator, timeout time.Duration, logger *slog.Logger) *AnswerUseCase {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerUseCase{generator: generator, timeout: timeout, logger: logger}
}

// Answer generates a grounded answer from the retrieved chunks. Grounded
// records that non-empty context was supplied and the backend replied; it
// does not verify that the model actually used the context.
func (u *AnswerUseCase) Answer(ctx context.Context, query string, results []domain.RetrievalResult) domain.Answer {
	if len(results) == 0 {
		return domain.Answer{
			Answer:      NoContextAnswer,
			ContextUsed: []domain.RetrievalResult{},
			Grounded:    false,
		}
	}

	prompt, err := buildPrompt(query, results)
	if err != nil {
		u.logger.Error("failed to render prompt", "err", err)
		return domain.Answer{
			Answer:      fmt.Sprintf("Error building prompt: %v", err),
			ContextUsed: results,
			Grounded:    false,
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	text, err := u.generator.Generate(callCtx, prompt)
	if err != nil {
		u.logger.Warn("generation failed", "err", err)
		return domain.Answer{
			Answer:      failureMessage(err),
			ContextUsed: results,
			Grounded:    false,
		}
	}

	return domain.Answer{
		Answer:      text,
		ContextUsed: results,
		Grounded:    true,
	}
}

// buildPrompt renders the grounding prompt: every chunk labeled with its
// source, in retrieval order, followed by the verbatim question.
func buildPrompt(query string, results []domain.RetrievalResult) (string, error) {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("[Source: %s]\n%s", r.Source, r.Text)
	}

	var buf bytes.Buffer
	err := groundedPrompt.Execute(&buf, struct {
		Context string
		Query   string
	}{
		Context: strings.Join(parts, "\n\n"),
		Query:   query,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// failureMessage maps each generation failure kind to a distinct
// human-readable answer string.
func failureMessage(err error) string {
	var gerr *domain.GenerationError
	if !errors.As(err, &gerr) {
		return fmt.Sprintf("Generation failed: %v", err)
	}

	switch gerr.Kind {
	case domain.GenNoCredential:
		return "Error: generation API key not configured. Set it in your environment or .env file."
	case domain.GenUnreachable:
		return "Cannot connect to the generation backend. Make sure Ollama is running on http://localhost:11434."
	case domain.GenTimeout:
		return "The generation backend timed out before producing an answer."
	case domain.GenHTTPStatus:
		return fmt.Sprintf("Generation backend returned HTTP status %d.", gerr.Status)
	case domain.GenEmptyBody:
		return "Error: empty response from the generation backend."
	case domain.GenBadPayload:
		return "Error parsing the generation backend response."
	case domain.GenBackend:
		return fmt.Sprintf("Generation backend error: %v", gerr.Err)
	case domain.GenBadFormat:
		return "Error: unexpected response format from the generation backend."
	default:
		return fmt.Sprintf("Generation failed: %v", err)
	}
}

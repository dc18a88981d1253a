// Package generation calls the external text-generation backend. Every
// failure mode is reported as a tagged *domain.GenerationError, so callers
// can tell an unreachable backend from a backend-reported error without
// string matching.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docqa/internal/domain"
)

// OllamaClient generates text through Ollama's /api/generate endpoint.
type OllamaClient struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response *string `json:"response"`
	Error    *string `json:"error"`
}

// NewOllamaClient creates a generation client. The timeout bounds the
// whole call; it is generous by default because a cold backend may need to
// load the model first.
func NewOllamaClient(baseURL, model, apiKey string, timeout time.Duration) *OllamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaClient{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Generate posts {model, prompt, stream:false} and returns the response
// text. A {response} field is success, an {error} field is a
// backend-reported failure, and the absence of both is an
// unexpected-format error.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", domain.NewGenerationError(domain.GenNoCredential, errors.New("API key not configured"))
	}

	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", domain.NewGenerationError(domain.GenUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", domain.NewGenerationError(domain.GenUnknown, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", domain.NewGenerationError(classifyTransport(err), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewGenerationError(classifyTransport(err), err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &domain.GenerationError{
			Kind:   domain.GenHTTPStatus,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("body: %s", preview(raw)),
		}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", domain.NewGenerationError(domain.GenEmptyBody, nil)
	}

	var genResp generateResponse
	if err := json.Unmarshal(raw, &genResp); err != nil {
		return "", domain.NewGenerationError(domain.GenBadPayload, fmt.Errorf("body: %s: %w", preview(raw), err))
	}

	if genResp.Error != nil {
		return "", domain.NewGenerationError(domain.GenBackend, errors.New(*genResp.Error))
	}
	if genResp.Response == nil {
		return "", domain.NewGenerationError(domain.GenBadFormat, fmt.Errorf("body: %s", preview(raw)))
	}

	return strings.TrimSpace(*genResp.Response), nil
}

func (c *OllamaClient) ModelName() string { return c.model }

// classifyTransport separates timeouts from connection failures.
func classifyTransport(err error) domain.GenerationErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.GenTimeout
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return domain.GenTimeout
	}
	var nerr interface{ Timeout() bool }
	if errors.As(err, &nerr) && nerr.Timeout() {
		return domain.GenTimeout
	}
	return domain.GenUnreachable
}

func preview(raw []byte) string {
	s := string(raw)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

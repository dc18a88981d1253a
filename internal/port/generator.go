package port

import "context"

// Generator calls an external text-generation backend with a finished
// prompt. Failures are reported as *domain.GenerationError so callers can
// branch on the failure kind.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the generation model.
	ModelName() string
}

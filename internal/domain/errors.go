package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers are expected to branch on.
var (
	// ErrEmptyQuery reports a missing or blank query string.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrNoIndex reports that no (index, corpus) pair has been loaded.
	ErrNoIndex = errors.New("no index loaded")

	// ErrCorrupt reports a persisted index whose row count disagrees with
	// the persisted chunk count. Distinct from "absent": absent means run
	// the build step, corrupt means the artifacts must be rebuilt.
	ErrCorrupt = errors.New("index corrupted: vector and chunk counts disagree")
)

// GenerationErrorKind enumerates the failure modes of the generation
// backend call. Each kind maps to a distinct user-facing message.
type GenerationErrorKind int

const (
	GenUnknown GenerationErrorKind = iota
	GenNoCredential
	GenUnreachable
	GenTimeout
	GenHTTPStatus
	GenEmptyBody
	GenBadPayload
	GenBackend
	GenBadFormat
)

func (k GenerationErrorKind) String() string {
	switch k {
	case GenNoCredential:
		return "no_credential"
	case GenUnreachable:
		return "unreachable"
	case GenTimeout:
		return "timeout"
	case GenHTTPStatus:
		return "http_status"
	case GenEmptyBody:
		return "empty_body"
	case GenBadPayload:
		return "bad_payload"
	case GenBackend:
		return "backend"
	case GenBadFormat:
		return "bad_format"
	default:
		return "unknown"
	}
}

// GenerationError is a tagged failure from the generation backend. Tagging
// lets callers distinguish "backend unreachable" from "model refused"
// without string matching.
type GenerationError struct {
	Kind   GenerationErrorKind
	Status int // HTTP status, set for GenHTTPStatus
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation %s: %v", e.Kind, e.Err)
	}
	if e.Kind == GenHTTPStatus {
		return fmt.Sprintf("generation %s: status %d", e.Kind, e.Status)
	}
	return fmt.Sprintf("generation %s", e.Kind)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError creates a tagged generation failure.
func NewGenerationError(kind GenerationErrorKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}

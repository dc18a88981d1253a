package chunker

import (
	"log/slog"
	"strings"

	"docqa/internal/domain"
)

// Params bounds the chunking policy.
type Params struct {
	ChunkSize   int // window size in characters
	Overlap     int // characters repeated between consecutive chunks
	MinChars    int // chunks at or below this length carry no signal
	MaxDocChars int // per-document input ceiling, truncate beyond it
	MaxPerDoc   int // chunk cap per document
}

// DefaultParams returns the standard chunking policy.
func DefaultParams() Params {
	return Params{
		ChunkSize:   500,
		Overlap:     50,
		MinChars:    10,
		MaxDocChars: 50000,
		MaxPerDoc:   200,
	}
}

// WindowChunker splits cleaned text into fixed-size windows with overlap,
// snapping each window end to the last sentence terminator inside it.
type WindowChunker struct {
	p      Params
	logger *slog.Logger
}

func NewWindowChunker(p Params, logger *slog.Logger) *WindowChunker {
	if p.ChunkSize <= 0 {
		p.ChunkSize = DefaultParams().ChunkSize
	}
	if p.Overlap < 0 || p.Overlap >= p.ChunkSize {
		p.Overlap = p.ChunkSize / 10
	}
	if p.MinChars <= 0 {
		p.MinChars = DefaultParams().MinChars
	}
	if p.MaxDocChars <= 0 {
		p.MaxDocChars = DefaultParams().MaxDocChars
	}
	if p.MaxPerDoc <= 0 {
		p.MaxPerDoc = DefaultParams().MaxPerDoc
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WindowChunker{p: p, logger: logger}
}

// Chunk splits text into bounded overlapping chunks tagged with source.
// Oversized input is truncated with a warning, never rejected. StartPos is
// the chunk's offset in the cleaned text, recorded for provenance.
func (c *WindowChunker) Chunk(text, source string) []domain.Chunk {
	// Truncate on the raw input before any cleanup, so the ceiling applies
	// to the original length.
	if len(text) > c.p.MaxDocChars {
		c.logger.Warn("document exceeds size ceiling, truncating",
			"source", source, "bytes", len(text), "limit", c.p.MaxDocChars)
		text = strings.ToValidUTF8(text[:c.p.MaxDocChars], "")
	}

	// Collapse whitespace runs to single spaces.
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	start := 0
	for start < len(runes) && len(chunks) < c.p.MaxPerDoc {
		end := start + c.p.ChunkSize
		if end >= len(runes) {
			end = len(runes)
		} else if dot := lastPeriod(runes, start, end); dot > start {
			// Snap to the last sentence terminator strictly after the
			// window start, avoiding mid-sentence cuts.
			end = dot + 1
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(piece)) > c.p.MinChars {
			chunks = append(chunks, domain.Chunk{
				Text:     piece,
				Source:   source,
				StartPos: start,
			})
		}

		if end == len(runes) {
			break
		}
		next := end - c.p.Overlap
		if next <= start {
			// Overlap would stall the walk; keep moving forward.
			next = end
		}
		start = next
	}

	if len(chunks) == c.p.MaxPerDoc {
		c.logger.Warn("chunk cap reached for document",
			"source", source, "cap", c.p.MaxPerDoc)
	}

	return chunks
}

// lastPeriod returns the index of the last '.' in runes[start:end], or -1.
func lastPeriod(runes []rune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		if runes[i] == '.' {
			return i
		}
	}
	return -1
}

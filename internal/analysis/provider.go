// Package analysis tags rationale text with keywords, emotions, and style
// indicators. It exposes one Provider contract with two implementations: an
// optional LLM-backed provider and the deterministic keyword-extraction
// fallback. Providers never propagate transport errors to the round
// submission path; any failure degrades to the fallback result.
package analysis

import "context"

// Result sources.
const (
	SourceLLM               = "llm"
	SourceKeywordExtraction = "keyword_extraction"
)

// Result is the fixed shape every provider returns.
type Result struct {
	Keywords        []string `json:"keywords"`
	Emotions        []string `json:"emotions,omitempty"`
	StyleIndicators []string `json:"style_indicators,omitempty"`
	Source          string   `json:"source"`
}

// Provider analyzes a free-text rationale. Implementations must always
// return the Result shape and must not surface transport failures: on any
// internal error they substitute the keyword-extraction fallback and return
// a nil error.
type Provider interface {
	Analyze(ctx context.Context, text string) (Result, error)
}

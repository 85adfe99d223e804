package analysis

import (
	"context"

	"github.com/tbourn/go-style-backend/internal/keywords"
)

// KeywordProvider is the deterministic local fallback: vocabulary extraction
// only, no emotions or style indicators. It is a total function and never
// returns an error.
type KeywordProvider struct{}

// Analyze extracts vocabulary keywords from text.
func (KeywordProvider) Analyze(_ context.Context, text string) (Result, error) {
	return Result{
		Keywords: keywords.Extract(text),
		Source:   SourceKeywordExtraction,
	}, nil
}

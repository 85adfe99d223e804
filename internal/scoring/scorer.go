// Package scoring turns the ordered choice history of a session into a
// normalized confidence distribution over style categories.
//
// The scorer is a fixed, explainable heuristic, not a trainable model. It is
// recomputed from scratch over the full history every round; nothing is
// maintained incrementally, so the persisted and recomputed distributions can
// never drift apart.
package scoring

import (
	"strings"

	"github.com/tbourn/go-style-backend/internal/domain"
)

// Scoring weights.
const (
	// PrimaryTagWeight is the contribution of a choice's first style tag.
	PrimaryTagWeight = 2.0
	// SecondaryTagWeight is the contribution of each remaining style tag.
	SecondaryTagWeight = 1.0
	// KeywordAffinityWeight scales the lexical keyword-affinity bonus. The
	// bonus links free-form vocabulary to style identifiers through a coarse
	// bidirectional substring test; inherited behavior, kept for
	// compatibility.
	KeywordAffinityWeight = 0.1
)

// Score aggregates the full choice history into a StyleScores distribution.
//
// Each choice's primary tag adds PrimaryTagWeight and each secondary tag
// SecondaryTagWeight to a per-style accumulator. Keyword occurrences are
// counted across all choices (not deduplicated per choice); every style that
// received raw weight then earns KeywordAffinityWeight per occurrence of a
// keyword that is a substring of the style id or contains it. The result is
// normalized by the maximum accumulator, pinning the top style at exactly
// 1.0.
//
// An empty history returns an empty map.
func Score(choices []domain.Choice) domain.StyleScores {
	scores := domain.StyleScores{}
	if len(choices) == 0 {
		return scores
	}

	acc := make(map[string]float64)
	freq := make(map[string]int)
	for i := range choices {
		c := &choices[i]
		if p := c.PrimaryStyle(); p != "" {
			acc[p] += PrimaryTagWeight
		}
		for _, s := range c.SecondaryStyles() {
			acc[s] += SecondaryTagWeight
		}
		for _, kw := range c.Keywords {
			freq[kw]++
		}
	}
	if len(acc) == 0 {
		return scores
	}

	for style := range acc {
		hits := 0
		for kw, n := range freq {
			if strings.Contains(style, kw) || strings.Contains(kw, style) {
				hits += n
			}
		}
		acc[style] += KeywordAffinityWeight * float64(hits)
	}

	max := 0.0
	for _, v := range acc {
		if v > max {
			max = v
		}
	}
	for style, v := range acc {
		scores[style] = v / max
	}
	return scores
}

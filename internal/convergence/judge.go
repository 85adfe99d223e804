// Package convergence decides when the discovery loop has collected enough
// rounds to commit to a recommendation, and ranks the distribution when it
// does. All functions are pure and operate on in-memory data only.
package convergence

import (
	"sort"

	"github.com/tbourn/go-style-backend/internal/domain"
)

// Convergence thresholds. All comparisons against them are inclusive.
const (
	// MinRounds is the hard minimum; the judge refuses premature
	// convergence before it, even on an accidental landslide.
	MinRounds = 6
	// MaxRounds is the hard maximum; at or past it the judge always stops
	// and recommends the best available style, however low the confidence.
	MaxRounds = 15
	// StopScore is the minimum top score required to stop early.
	StopScore = 0.6
	// StopGap is the minimum lead of the top score over the second-best.
	StopGap = 0.2
)

// Remaining-round estimation bands. Higher confidence maps to a lower target
// total-round count.
const (
	estimateMinRounds  = 3
	highConfidence     = 0.7
	mediumConfidence   = 0.5
	targetRoundsHigh   = 8
	targetRoundsMedium = 10
	targetRoundsLow    = 12
)

// ShouldStop reports whether the discovery loop should stop after
// completedRounds rounds given the current distribution.
//
// Rules, in order: an empty distribution never stops; completedRounds >=
// MaxRounds always stops; completedRounds < MinRounds never stops; otherwise
// stop iff the top score is >= StopScore and its lead over the second-best is
// >= StopGap.
func ShouldStop(scores domain.StyleScores, completedRounds int) bool {
	if len(scores) == 0 {
		return false
	}
	if completedRounds >= MaxRounds {
		return true
	}
	if completedRounds < MinRounds {
		return false
	}
	top, second := topTwo(scores)
	return top >= StopScore && top-second >= StopGap
}

// TopStyles returns up to n style ids ordered by descending score. Equal
// scores are broken lexicographically ascending by style id, so the order is
// fully deterministic.
func TopStyles(scores domain.StyleScores, n int) []string {
	if n <= 0 || len(scores) == 0 {
		return nil
	}
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return a < b
	})
	if n < len(ids) {
		ids = ids[:n]
	}
	return ids
}

// SecondBest returns the style ranked second by TopStyles. It reports false
// when fewer than two styles have nonzero scores.
func SecondBest(scores domain.StyleScores) (string, bool) {
	nonzero := domain.StyleScores{}
	for id, v := range scores {
		if v > 0 {
			nonzero[id] = v
		}
	}
	top := TopStyles(nonzero, 2)
	if len(top) < 2 {
		return "", false
	}
	return top[1], true
}

// EstimateRemainingRounds returns a coarse, discrete estimate of the rounds
// left before convergence. It reports false ("unknown") when fewer than
// estimateMinRounds rounds have completed. The estimate is monotonically
// non-increasing as confidence rises and rounds accrue; it is not a
// statistical projection.
func EstimateRemainingRounds(completedRounds int, scores domain.StyleScores) (int, bool) {
	if completedRounds < estimateMinRounds {
		return 0, false
	}
	top, _ := topTwo(scores)
	target := targetRoundsLow
	switch {
	case top >= highConfidence:
		target = targetRoundsHigh
	case top >= mediumConfidence:
		target = targetRoundsMedium
	}
	remaining := target - completedRounds
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// topTwo returns the highest and second-highest scores, or zeros when the
// distribution has fewer entries.
func topTwo(scores domain.StyleScores) (top, second float64) {
	for _, v := range scores {
		if v > top {
			top, second = v, top
		} else if v > second {
			second = v
		}
	}
	return top, second
}

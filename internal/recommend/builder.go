// Package recommend assembles ranked, deduplicated display sets of candidate
// items for a winning style. Sets are ephemeral: recomputed on demand and
// never persisted.
package recommend

import (
	"math/rand/v2"

	"github.com/tbourn/go-style-backend/internal/catalog"
)

// DefaultCount is the number of items returned when the caller does not ask
// for a specific set size.
const DefaultCount = 10

// Builder produces recommendation sets. The zero value is not usable; create
// one with New or NewSeeded.
type Builder struct {
	// shuffle permutes n elements. The default is the process-global
	// math/rand/v2 shuffle, which is safe for concurrent use; NewSeeded
	// swaps in a deterministic source for tests.
	shuffle func(n int, swap func(i, j int))
}

// New returns a Builder backed by the process-global random source.
func New() *Builder {
	return &Builder{shuffle: rand.Shuffle}
}

// NewSeeded returns a Builder with a deterministic PCG source. Intended for
// tests; the returned Builder is not safe for concurrent use.
func NewSeeded(seed uint64) *Builder {
	r := rand.New(rand.NewPCG(seed, seed))
	return &Builder{shuffle: r.Shuffle}
}

// Build returns up to count items matching styleID from pool, excluding any
// id in excluded. Items whose primary style matches come first, then items
// carrying styleID as a secondary style; each partition is independently
// shuffled (uniform permutation), so ordering within a partition is random
// while primary matches always precede secondary ones.
//
// count <= 0 falls back to DefaultCount. The result never contains an
// excluded id and has length min(count, matches); zero matches yield an
// empty, non-nil slice.
func (b *Builder) Build(styleID string, excluded []string, count int, pool []catalog.CandidateItem) []catalog.CandidateItem {
	if count <= 0 {
		count = DefaultCount
	}
	skip := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}

	var primary, secondary []catalog.CandidateItem
	for _, it := range pool {
		if _, drop := skip[it.ID]; drop {
			continue
		}
		if it.PrimaryStyle == styleID {
			primary = append(primary, it)
			continue
		}
		for _, sec := range it.SecondaryStyles {
			if sec == styleID {
				secondary = append(secondary, it)
				break
			}
		}
	}

	b.shuffle(len(primary), func(i, j int) { primary[i], primary[j] = primary[j], primary[i] })
	b.shuffle(len(secondary), func(i, j int) { secondary[i], secondary[j] = secondary[j], secondary[i] })

	out := make([]catalog.CandidateItem, 0, count)
	out = append(out, primary...)
	out = append(out, secondary...)
	if len(out) > count {
		out = out[:count]
	}
	return out
}

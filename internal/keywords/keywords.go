// Package keywords extracts design-vocabulary tokens from free-text
// rationales. It is intentionally small and dependency-free:
//
//   - No logging in the library (callers decide how/what to log)
//   - A fixed, finite vocabulary; no stemming, no partial matches
//   - Output preserves input order and duplicates (frequency matters to the
//     preference scorer downstream)
//   - Total, deterministic functions that never fail
package keywords

import "strings"

// vocabulary is the fixed set of design-relevant tokens recognized in
// rationale text: colors, materials, style adjectives, spatial adjectives.
var vocabulary = map[string]struct{}{
	// Colors and tones
	"white": {}, "black": {}, "gray": {}, "beige": {}, "blue": {},
	"green": {}, "warm": {}, "cool": {}, "neutral": {}, "bright": {}, "dark": {},
	// Materials
	"wood": {}, "wooden": {}, "metal": {}, "leather": {}, "linen": {},
	"velvet": {}, "stone": {}, "rattan": {},
	// Style adjectives
	"clean": {}, "simple": {}, "minimal": {}, "cozy": {}, "rustic": {},
	"elegant": {}, "modern": {}, "vintage": {}, "eclectic": {}, "bold": {},
	"soft": {}, "natural": {}, "industrial": {}, "ornate": {},
	// Spatial adjectives
	"open": {}, "airy": {}, "spacious": {}, "compact": {},
}

// Extract returns the vocabulary keywords present in text, lower-cased, in
// order of appearance. Duplicates are preserved. Tokens are split on
// whitespace runs with surrounding punctuation trimmed; there is no stemming
// and no substring matching.
func Extract(text string) []string {
	var out []string
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?\"'()[]")
		if _, ok := vocabulary[tok]; ok {
			out = append(out, tok)
		}
	}
	return out
}

// Contains reports whether w is a vocabulary keyword.
func Contains(w string) bool {
	_, ok := vocabulary[strings.ToLower(w)]
	return ok
}

// Vocabulary returns a copy of the keyword set. The slice order is
// unspecified.
func Vocabulary() []string {
	out := make([]string, 0, len(vocabulary))
	for w := range vocabulary {
		out = append(out, w)
	}
	return out
}

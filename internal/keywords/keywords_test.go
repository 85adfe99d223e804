package keywords

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"no matches", "I like the overall look of this one", nil},
		{
			"order of appearance",
			"warm wood tones and clean lines",
			[]string{"warm", "wood", "clean"},
		},
		{
			"case folding",
			"The WARM Wood feels Natural",
			[]string{"warm", "wood", "natural"},
		},
		{
			"duplicates preserved",
			"wood on wood, so much wood",
			[]string{"wood", "wood", "wood"},
		},
		{
			"punctuation trimmed",
			"Very cozy, warm... and (soft)!",
			[]string{"cozy", "warm", "soft"},
		},
		{
			"no partial matches",
			"woodland cleanliness openness",
			nil,
		},
		{
			"whitespace runs",
			"minimal\t\tclean\n  bright",
			[]string{"minimal", "clean", "bright"},
		},
	}
	for _, tc := range cases {
		if got := Extract(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: Extract(%q) = %v; want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestContains(t *testing.T) {
	if !Contains("modern") || !Contains("MODERN") {
		t.Error("Contains should be case-insensitive for vocabulary words")
	}
	if Contains("modernist") {
		t.Error("Contains must not match non-vocabulary words")
	}
}

func TestVocabularyIsCopied(t *testing.T) {
	v := Vocabulary()
	if len(v) < 30 {
		t.Fatalf("vocabulary unexpectedly small: %d terms", len(v))
	}
	v[0] = "mutated"
	if Contains("mutated") {
		t.Error("mutating the returned slice must not affect the vocabulary")
	}
}

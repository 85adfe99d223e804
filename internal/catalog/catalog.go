// Package catalog loads the static style reference data: the style catalog
// and the candidate item pool. Both are loaded once at startup, validated for
// internal consistency, and shared read-only by every component afterwards.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed data/catalog.json
var embedded embed.FS

// StyleCatalogEntry describes one decorative style category.
type StyleCatalogEntry struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Synonyms      []string `json:"synonyms,omitempty"`
	RelatedStyles []string `json:"related_styles,omitempty"`
	ItemCount     int      `json:"item_count"`
}

// CandidateItem is one displayable item in the recommendation pool. The
// primary style is the item's dominant category; secondary styles are ordered
// by decreasing relevance.
type CandidateItem struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ImageURL        string   `json:"image_url,omitempty"`
	PrimaryStyle    string   `json:"primary_style"`
	SecondaryStyles []string `json:"secondary_styles,omitempty"`
}

// Catalog is the immutable reference data set. Safe for concurrent reads;
// never mutated after Load returns.
type Catalog struct {
	styles  []StyleCatalogEntry
	items   []CandidateItem
	styleID map[string]int
}

type catalogFile struct {
	Styles []StyleCatalogEntry `json:"styles"`
	Items  []CandidateItem     `json:"items"`
}

// Load reads the catalog from path, or from the embedded default when path is
// empty. It fails on empty or internally inconsistent data (an item
// referencing a style id missing from the catalog).
func Load(path string) (*Catalog, error) {
	var (
		raw []byte
		err error
	)
	if path != "" {
		raw, err = os.ReadFile(path)
	} else {
		raw, err = embedded.ReadFile("data/catalog.json")
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Styles) == 0 {
		return nil, fmt.Errorf("catalog has no styles")
	}
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("catalog has no candidate items")
	}

	c := &Catalog{
		styles:  f.Styles,
		items:   f.Items,
		styleID: make(map[string]int, len(f.Styles)),
	}
	for i, s := range f.Styles {
		if strings.TrimSpace(s.ID) == "" {
			return nil, fmt.Errorf("style at index %d has an empty id", i)
		}
		if _, dup := c.styleID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate style id %q", s.ID)
		}
		c.styleID[s.ID] = i
	}
	for _, s := range f.Styles {
		for _, rel := range s.RelatedStyles {
			if _, ok := c.styleID[rel]; !ok {
				return nil, fmt.Errorf("style %q references unknown related style %q", s.ID, rel)
			}
		}
	}
	for _, it := range f.Items {
		if _, ok := c.styleID[it.PrimaryStyle]; !ok {
			return nil, fmt.Errorf("item %q references unknown primary style %q", it.ID, it.PrimaryStyle)
		}
		for _, sec := range it.SecondaryStyles {
			if _, ok := c.styleID[sec]; !ok {
				return nil, fmt.Errorf("item %q references unknown secondary style %q", it.ID, sec)
			}
		}
	}
	return c, nil
}

// Styles returns the style entries in catalog order.
func (c *Catalog) Styles() []StyleCatalogEntry { return c.styles }

// Items returns the full candidate item pool.
func (c *Catalog) Items() []CandidateItem { return c.items }

// Style looks a style up by id.
func (c *Catalog) Style(id string) (StyleCatalogEntry, bool) {
	i, ok := c.styleID[id]
	if !ok {
		return StyleCatalogEntry{}, false
	}
	return c.styles[i], true
}

// HasStyle reports whether id exists in the catalog.
func (c *Catalog) HasStyle(id string) bool {
	_, ok := c.styleID[id]
	return ok
}

// titleCaser renders ids as display names; hyphens become spaces first.
var titleCaser = cases.Title(language.English)

// DisplayName returns the configured display name for a style, falling back
// to a title-cased rendering of the id for unknown or unnamed styles.
func (c *Catalog) DisplayName(id string) string {
	if s, ok := c.Style(id); ok && strings.TrimSpace(s.Name) != "" {
		return s.Name
	}
	return titleCaser.String(strings.ReplaceAll(id, "-", " "))
}

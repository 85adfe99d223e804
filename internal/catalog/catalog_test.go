package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load embedded catalog: %v", err)
	}
	if len(c.Styles()) == 0 {
		t.Fatal("embedded catalog has no styles")
	}
	if len(c.Items()) == 0 {
		t.Fatal("embedded catalog has no items")
	}

	// Every item reference must resolve.
	for _, it := range c.Items() {
		if !c.HasStyle(it.PrimaryStyle) {
			t.Errorf("item %s: unknown primary style %q", it.ID, it.PrimaryStyle)
		}
		for _, sec := range it.SecondaryStyles {
			if !c.HasStyle(sec) {
				t.Errorf("item %s: unknown secondary style %q", it.ID, sec)
			}
		}
	}

	s, ok := c.Style("modern")
	if !ok {
		t.Fatal("expected a modern style entry")
	}
	if s.Name != "Modern" {
		t.Errorf("modern display name = %q", s.Name)
	}
	if len(s.RelatedStyles) == 0 {
		t.Error("modern should list related styles for the alternatives fallback")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	data := `{
		"styles": [{"id": "modern", "name": "Modern", "item_count": 1}],
		"items": [{"id": "i1", "name": "Chair", "primary_style": "modern"}]
	}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	if len(c.Items()) != 1 || c.Items()[0].ID != "i1" {
		t.Errorf("items = %v", c.Items())
	}
}

func TestLoadRejectsInconsistentData(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		data string
	}{
		{"missing file", ""},
		{"bad json", `{"styles": [`},
		{"no styles", `{"styles": [], "items": [{"id": "i1", "primary_style": "x"}]}`},
		{"no items", `{"styles": [{"id": "modern"}], "items": []}`},
		{"unknown primary", `{"styles": [{"id": "modern"}], "items": [{"id": "i1", "primary_style": "coastal"}]}`},
		{"unknown secondary", `{"styles": [{"id": "modern"}], "items": [{"id": "i1", "primary_style": "modern", "secondary_styles": ["coastal"]}]}`},
		{"unknown related", `{"styles": [{"id": "modern", "related_styles": ["x"]}], "items": [{"id": "i1", "primary_style": "modern"}]}`},
		{"duplicate style", `{"styles": [{"id": "modern"}, {"id": "modern"}], "items": [{"id": "i1", "primary_style": "modern"}]}`},
	}
	for _, tc := range cases {
		path := filepath.Join(dir, tc.name+".json")
		if tc.data != "" {
			if err := os.WriteFile(path, []byte(tc.data), 0o600); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: Load succeeded; want error", tc.name)
		}
	}
}

func TestDisplayName(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.DisplayName("modern"); got != "Modern" {
		t.Errorf("DisplayName(modern) = %q", got)
	}
	if got := c.DisplayName("mid-century"); got != "Mid Century" {
		t.Errorf("DisplayName(mid-century) = %q", got)
	}
}

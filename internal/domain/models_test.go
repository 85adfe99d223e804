package domain

import (
	"testing"
	"time"
)

func TestSessionIsStale(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{ID: "s1", CreatedAt: created}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just created", created, false},
		{"one hour", created.Add(time.Hour), false},
		{"exactly 24h", created.Add(24 * time.Hour), false},
		{"25 hours", created.Add(25 * time.Hour), true},
		{"days later", created.Add(72 * time.Hour), true},
	}
	for _, tc := range cases {
		if got := s.IsStale(tc.now); got != tc.want {
			t.Errorf("%s: IsStale = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestSelectedItemIDs(t *testing.T) {
	s := &Session{
		Choices: []Choice{
			{Round: 1, SelectedItemID: "a", RejectedItemID: "b"},
			{Round: 2, SelectedItemID: "c", RejectedItemID: "d"},
		},
	}
	got := s.SelectedItemIDs()
	want := []string{"a", "c"}
	if len(got) != len(want) {
		t.Fatalf("SelectedItemIDs = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SelectedItemIDs[%d] = %q; want %q", i, got[i], want[i])
		}
	}

	if ids := (&Session{}).SelectedItemIDs(); len(ids) != 0 {
		t.Errorf("empty session SelectedItemIDs = %v; want empty", ids)
	}
}

func TestChoiceStyleTags(t *testing.T) {
	c := &Choice{StyleTags: []string{"modern", "scandinavian", "industrial"}}
	if got := c.PrimaryStyle(); got != "modern" {
		t.Errorf("PrimaryStyle = %q; want %q", got, "modern")
	}
	sec := c.SecondaryStyles()
	if len(sec) != 2 || sec[0] != "scandinavian" || sec[1] != "industrial" {
		t.Errorf("SecondaryStyles = %v", sec)
	}

	empty := &Choice{}
	if got := empty.PrimaryStyle(); got != "" {
		t.Errorf("empty PrimaryStyle = %q; want \"\"", got)
	}
	if sec := empty.SecondaryStyles(); sec != nil {
		t.Errorf("empty SecondaryStyles = %v; want nil", sec)
	}

	single := &Choice{StyleTags: []string{"bohemian"}}
	if sec := single.SecondaryStyles(); sec != nil {
		t.Errorf("single-tag SecondaryStyles = %v; want nil", sec)
	}
}

func TestTableNames(t *testing.T) {
	if got := (Session{}).TableName(); got != "sessions" {
		t.Errorf("Session.TableName = %q", got)
	}
	if got := (Choice{}).TableName(); got != "choices" {
		t.Errorf("Choice.TableName = %q", got)
	}
}

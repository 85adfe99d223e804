// Package domain defines the persistence models for discovery sessions and
// their choices. These types are mapped with GORM and form the core data
// layer of the style discovery backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Phase enumerates the lifecycle states of a discovery session.
type Phase string

// Session phases, in lifecycle order.
const (
	PhaseDiscovery       Phase = "discovery"
	PhaseRecommendations Phase = "recommendations"
	PhaseAlternatives    Phase = "alternatives"
	PhaseComplete        Phase = "complete"
)

// SessionMaxAge is the fixed wall-clock window after which a persisted
// session is considered stale and discarded at load time. Expiry is measured
// from CreatedAt only; it never slides on access.
const SessionMaxAge = 24 * time.Hour

// StyleScores is the normalized confidence distribution over style
// categories. Values are in [0,1]; whenever at least one entry exists the
// maximum entry is exactly 1.0. It is serialized as a JSON text column.
type StyleScores map[string]float64

// Session is the aggregate root of one discovery flow. It is mutated exactly
// once per accepted round and owns its ordered Choice history.
//
// Fields:
//   - ID: stable UUID primary key (char(36)); stable across all transitions
//     except create/restart.
//   - Phase: current lifecycle phase (enforced by DB constraint).
//   - CurrentRound: starts at 1, increments by exactly 1 per accepted choice.
//   - Scores: the current confidence distribution, recomputed from scratch
//     from the full choice history every round.
//   - RecommendedStyle / SecondBestStyle: set when the discovery loop
//     converges; nil before that.
//   - Choices: insertion-ordered round history, cascade-deleted with the
//     session.
type Session struct {
	ID               string      `json:"id"                          gorm:"type:char(36);primaryKey"`
	Phase            Phase       `json:"phase"                       gorm:"type:varchar(16);not null;check:phase IN ('discovery','recommendations','alternatives','complete')"`
	CurrentRound     int         `json:"current_round"               gorm:"not null;default:1"`
	Scores           StyleScores `json:"style_scores"                gorm:"serializer:json"`
	RecommendedStyle *string     `json:"recommended_style,omitempty" gorm:"type:varchar(64)"`
	SecondBestStyle  *string     `json:"second_best_style,omitempty" gorm:"type:varchar(64)"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	Choices []Choice `json:"choices,omitempty" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// IsStale reports whether the session has outlived SessionMaxAge at the
// given instant.
func (s *Session) IsStale(now time.Time) bool {
	return now.Sub(s.CreatedAt) > SessionMaxAge
}

// SelectedItemIDs returns the item ids already consumed as selected items,
// in round order. Recommendation sets must exclude these.
func (s *Session) SelectedItemIDs() []string {
	out := make([]string, 0, len(s.Choices))
	for _, c := range s.Choices {
		out = append(out, c.SelectedItemID)
	}
	return out
}

// Choice is one round's decision record. It is immutable once created and
// owned exclusively by the session that created it; the history is
// insertion-ordered by round and never reordered.
//
// Fields:
//   - Round: 1-based round index within the session.
//   - SelectedItemID / RejectedItemID: the binary image choice.
//   - StyleTags: ordered style tags carried by the selected item; the first
//     tag is primary, the rest are secondary.
//   - Rationale: free-text explanation, 10–500 chars after trimming.
//   - Keywords: vocabulary keywords derived from the rationale.
//   - Source: "llm" or "keyword_extraction", whichever produced Keywords.
type Choice struct {
	ID             string         `json:"id"               gorm:"type:char(36);primaryKey"`
	SessionID      string         `json:"session_id"       gorm:"type:char(36);not null;index:idx_session_choices,priority:1"`
	Round          int            `json:"round"            gorm:"not null;index:idx_session_choices,priority:2"`
	SelectedItemID string         `json:"selected_item_id" gorm:"type:varchar(64);not null"`
	RejectedItemID string         `json:"rejected_item_id" gorm:"type:varchar(64);not null"`
	StyleTags      []string       `json:"style_tags"       gorm:"serializer:json"`
	Rationale      string         `json:"rationale"        gorm:"type:text;not null"`
	Keywords       []string       `json:"keywords"         gorm:"serializer:json"`
	Source         string         `json:"source"           gorm:"type:varchar(32);not null;default:'keyword_extraction'"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `json:"-"                gorm:"index"`

	// Session is the owning discovery flow. Choices are cascade-deleted
	// if their session is removed.
	Session Session `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Choice.
func (Choice) TableName() string { return "choices" }

// PrimaryStyle returns the first style tag, or "" when the choice carries no
// tags.
func (c *Choice) PrimaryStyle() string {
	if len(c.StyleTags) == 0 {
		return ""
	}
	return c.StyleTags[0]
}

// SecondaryStyles returns every style tag after the first.
func (c *Choice) SecondaryStyles() []string {
	if len(c.StyleTags) <= 1 {
		return nil
	}
	return c.StyleTags[1:]
}

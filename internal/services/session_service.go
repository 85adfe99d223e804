// Package services – SessionService
//
// This file implements SessionService, the application-level component that
// owns the discovery session state machine. Each accepted round is a single
// transaction: validate the choice, derive keywords (analysis provider with
// keyword fallback), append the choice, rescore the full history, ask the
// convergence judge whether to stop, and advance the phase when it says so.
//
// Session updates are built as new values derived from the loaded one, so
// "never mutate the stored aggregate before the transaction commits" is a
// structural guarantee rather than a convention.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// session identifiers and round counts where applicable.
package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-style-backend/internal/analysis"
	"github.com/tbourn/go-style-backend/internal/catalog"
	"github.com/tbourn/go-style-backend/internal/convergence"
	"github.com/tbourn/go-style-backend/internal/domain"
	"github.com/tbourn/go-style-backend/internal/observability"
	"github.com/tbourn/go-style-backend/internal/recommend"
	"github.com/tbourn/go-style-backend/internal/repo"
	"github.com/tbourn/go-style-backend/internal/scoring"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Rationale length bounds, in runes after trimming.
const (
	MinRationaleRunes = 10
	MaxRationaleRunes = 500
)

// Transition action names, used in InvalidTransitionError reports.
const (
	actionSubmitChoice = "submit_choice"
	actionConfirm      = "confirm_recommendation"
	actionReject       = "reject_recommendation"
	actionRestartAlts  = "restart_from_alternatives"
)

// ChoiceInput is the caller-supplied part of one round's decision.
type ChoiceInput struct {
	SelectedItemID string
	RejectedItemID string
	StyleTags      []string
	Rationale      string
}

// RecommendationSet is an ephemeral, on-demand display set for the winning
// style. It is never persisted.
type RecommendationSet struct {
	StyleID   string                  `json:"style_id"`
	StyleName string                  `json:"style_name"`
	Items     []catalog.CandidateItem `json:"items"`
}

// SessionService coordinates session persistence, preference scoring,
// convergence judging, and recommendation building.
type SessionService struct {
	DB       *gorm.DB
	Catalog  *catalog.Catalog
	Analyzer analysis.Provider
	Builder  *recommend.Builder

	// AnalysisTimeout bounds the per-round text analysis call. The round
	// submission path never blocks past it; expiry falls back to keyword
	// extraction inside the provider.
	AnalysisTimeout time.Duration

	// now is a test seam for staleness checks.
	now func() time.Time
}

// NewSessionService constructs a SessionService with sane defaults.
func NewSessionService(db *gorm.DB, cat *catalog.Catalog, provider analysis.Provider) *SessionService {
	if provider == nil {
		provider = analysis.KeywordProvider{}
	}
	return &SessionService{
		DB:              db,
		Catalog:         cat,
		Analyzer:        provider,
		Builder:         recommend.New(),
		AnalysisTimeout: 5 * time.Second,
		now:             time.Now,
	}
}

// LoadOrCreate returns the persisted session for id when it exists and is
// still fresh; otherwise it discards any stale row and creates a new
// session. The second return reports whether a new session was created.
// Stale or missing sessions are routine, never an error.
func (s *SessionService) LoadOrCreate(ctx context.Context, id string) (*domain.Session, bool, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "LoadOrCreate",
		trace.WithAttributes(attribute.String("session.id", id)),
	)
	defer span.End()

	if id != "" {
		sess, err := repo.GetSession(ctx, s.DB, id)
		switch {
		case err == nil && !sess.IsStale(s.now()):
			return sess, false, nil
		case err == nil:
			// Stale: discard and fall through to create.
			if derr := repo.DeleteSession(ctx, s.DB, id); derr != nil {
				return nil, false, derr
			}
		case !errors.Is(err, repo.ErrNotFound):
			return nil, false, err
		}
	}
	sess, err := repo.CreateSession(ctx, s.DB)
	if err != nil {
		return nil, false, err
	}
	observability.SessionsStarted.Inc()
	return sess, true, nil
}

// Get returns a fresh session by id, or ErrSessionNotFound when the session
// is missing or stale.
func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := repo.GetSession(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if sess.IsStale(s.now()) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// SubmitChoice runs one discovery round: it validates the input, derives
// keywords, appends the choice, rescores the whole history, and advances to
// the recommendations phase when the convergence judge stops the loop. The
// judge is evaluated with the completed-round count, i.e. the session's
// round number at submission time.
//
// After any successful call, len(choices) == currentRound - 1 holds.
func (s *SessionService) SubmitChoice(ctx context.Context, sessionID string, in ChoiceInput) (*domain.Session, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "SubmitChoice",
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Phase != domain.PhaseDiscovery {
		return nil, invalidTransition(sess.Phase, actionSubmitChoice)
	}

	rationale := strings.TrimSpace(in.Rationale)
	switch n := utf8.RuneCountInString(rationale); {
	case n < MinRationaleRunes:
		return nil, ErrRationaleTooShort
	case n > MaxRationaleRunes:
		return nil, ErrRationaleTooLong
	}
	if len(in.StyleTags) == 0 {
		return nil, ErrMissingStyleTags
	}

	res := s.analyze(ctx, rationale)
	span.SetAttributes(
		attribute.Int("round", sess.CurrentRound),
		attribute.String("analysis.source", res.Source),
	)

	choice := domain.Choice{
		SessionID:      sess.ID,
		Round:          sess.CurrentRound,
		SelectedItemID: in.SelectedItemID,
		RejectedItemID: in.RejectedItemID,
		StyleTags:      slices.Clone(in.StyleTags),
		Rationale:      rationale,
		Keywords:       res.Keywords,
		Source:         res.Source,
	}

	history := append(slices.Clone(sess.Choices), choice)
	scores := scoring.Score(history)
	completedRounds := sess.CurrentRound

	converged := convergence.ShouldStop(scores, completedRounds)

	next := *sess
	next.CurrentRound = sess.CurrentRound + 1
	next.Scores = scores
	if converged {
		top := convergence.TopStyles(scores, 1)
		next.RecommendedStyle = &top[0]
		next.SecondBestStyle = nil
		if second, ok := convergence.SecondBest(scores); ok {
			next.SecondBestStyle = &second
		}
		next.Phase = domain.PhaseRecommendations
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.CreateChoice(tx, &choice); err != nil {
			return err
		}
		return repo.UpdateSession(ctx, tx, &next)
	})
	if err != nil {
		return nil, err
	}

	observability.ChoicesRecorded.Inc()
	if converged {
		observability.ConvergenceRounds.Observe(float64(completedRounds))
	}

	history[len(history)-1] = choice
	next.Choices = history
	return &next, nil
}

// ConfirmRecommendation accepts the current recommendation and completes the
// session. Valid in the recommendations and alternatives phases.
func (s *SessionService) ConfirmRecommendation(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Phase != domain.PhaseRecommendations && sess.Phase != domain.PhaseAlternatives {
		return nil, invalidTransition(sess.Phase, actionConfirm)
	}
	next := *sess
	next.Phase = domain.PhaseComplete
	if err := repo.UpdateSession(ctx, s.DB, &next); err != nil {
		return nil, err
	}
	observability.RecommendationsAccepted.Inc()
	return &next, nil
}

// RejectRecommendation declines the recommended style. With a second-best
// style available, it is promoted and the session moves to the alternatives
// phase; without one, ErrNoAlternative is returned and nothing changes.
// Valid only in the recommendations phase.
func (s *SessionService) RejectRecommendation(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Phase != domain.PhaseRecommendations {
		return nil, invalidTransition(sess.Phase, actionReject)
	}
	if sess.SecondBestStyle == nil {
		return nil, ErrNoAlternative
	}
	next := *sess
	promoted := *sess.SecondBestStyle
	next.RecommendedStyle = &promoted
	next.SecondBestStyle = nil
	next.Phase = domain.PhaseAlternatives
	if err := repo.UpdateSession(ctx, s.DB, &next); err != nil {
		return nil, err
	}
	observability.RecommendationsRejected.Inc()
	return &next, nil
}

// Restart discards the session (if any) and creates a fresh one with a new
// id. Valid in any phase.
func (s *SessionService) Restart(ctx context.Context, sessionID string) (*domain.Session, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "Restart",
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	if sessionID != "" {
		if err := repo.DeleteSession(ctx, s.DB, sessionID); err != nil {
			return nil, err
		}
	}
	sess, err := repo.CreateSession(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	observability.SessionsStarted.Inc()
	return sess, nil
}

// RestartFromAlternatives restarts the flow after the alternatives phase was
// reached. Valid only in that phase.
func (s *SessionService) RestartFromAlternatives(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Phase != domain.PhaseAlternatives {
		return nil, invalidTransition(sess.Phase, actionRestartAlts)
	}
	return s.Restart(ctx, sess.ID)
}

// Recommendations builds the display set for the session's recommended
// style, excluding every item the user already selected during discovery.
// An empty candidate pool for the style yields an empty set, not an error.
func (s *SessionService) Recommendations(ctx context.Context, sessionID string, count int) (*RecommendationSet, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "Recommendations",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.Int("count", count),
		),
	)
	defer span.End()

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.RecommendedStyle == nil {
		return nil, ErrNoRecommendation
	}
	styleID := *sess.RecommendedStyle
	items := s.Builder.Build(styleID, sess.SelectedItemIDs(), count, s.Catalog.Items())
	return &RecommendationSet{
		StyleID:   styleID,
		StyleName: s.Catalog.DisplayName(styleID),
		Items:     items,
	}, nil
}

// EstimateRemaining returns the coarse remaining-round estimate for a
// session, reporting false while too few rounds have completed.
func (s *SessionService) EstimateRemaining(sess *domain.Session) (int, bool) {
	return convergence.EstimateRemainingRounds(sess.CurrentRound-1, sess.Scores)
}

// analyze runs the text analysis provider under the configured deadline.
// The provider contract already degrades to keyword extraction internally;
// a nil provider or a returned error degrade the same way here.
func (s *SessionService) analyze(ctx context.Context, rationale string) analysis.Result {
	provider := s.Analyzer
	if provider == nil {
		provider = analysis.KeywordProvider{}
	}
	timeout := s.AnalysisTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := provider.Analyze(actx, rationale)
	if err != nil {
		res, _ = analysis.KeywordProvider{}.Analyze(ctx, rationale)
	}
	return res
}

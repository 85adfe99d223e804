// Session HTTP handlers.
//
// This file exposes REST endpoints for the quiz session lifecycle:
//   - POST /sessions                  (load-or-create)
//   - GET  /sessions/current          (snapshot)
//   - POST /sessions/current/confirm  (accept the recommended style)
//   - POST /sessions/current/reject   (swap in the second-best style)
//   - POST /sessions/current/restart  (discard and start over)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. Session identity travels in the
// X-Session-ID header; the handlers never mint ids themselves.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-style-backend/internal/catalog"
	"github.com/tbourn/go-style-backend/internal/domain"
	"github.com/tbourn/go-style-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// SessionService defines the quiz lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SessionService interface {
	// LoadOrCreate returns the session for id when present and fresh,
	// otherwise creates a new one. The bool reports whether a session
	// was created.
	LoadOrCreate(ctx context.Context, id string) (*domain.Session, bool, error)
	// Get returns a fresh session by id.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// SubmitChoice records one quiz round and advances the session.
	SubmitChoice(ctx context.Context, sessionID string, in services.ChoiceInput) (*domain.Session, error)
	// ConfirmRecommendation completes the session.
	ConfirmRecommendation(ctx context.Context, sessionID string) (*domain.Session, error)
	// RejectRecommendation promotes the second-best style.
	RejectRecommendation(ctx context.Context, sessionID string) (*domain.Session, error)
	// Restart discards the session and starts a new one.
	Restart(ctx context.Context, sessionID string) (*domain.Session, error)
	// Recommendations builds the item set for the recommended style.
	Recommendations(ctx context.Context, sessionID string, count int) (*services.RecommendationSet, error)
	// EstimateRemaining predicts how many rounds are left, if known.
	EstimateRemaining(sess *domain.Session) (int, bool)
}

// StyleCatalog defines the read-only catalog operations consumed by HTTP
// handlers.
type StyleCatalog interface {
	// Styles returns every style profile in the catalog.
	Styles() []catalog.StyleCatalogEntry
	// DisplayName returns a human-readable name for a style id.
	DisplayName(id string) string
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for sessions, choices, recommendations, and
// the style catalog. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	sessions SessionService
	catalog  StyleCatalog

	// RecommendCount is the default item count for recommendation sets when
	// the request omits the count query param. Zero means 10.
	RecommendCount int
}

// New constructs and returns a Handlers instance bound to the given services.
func New(sessions SessionService, catalog StyleCatalog) *Handlers {
	return &Handlers{sessions: sessions, catalog: catalog}
}

// sessionID extracts the client session id from Gin context (set by upstream
// middleware). If absent, it falls back to the "X-Session-ID" header. An empty
// result means "no session yet".
func sessionID(c *gin.Context) string {
	if v, ok := c.Get("sessionID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-Session-ID")); h != "" {
			return h
		}
	}
	return ""
}

//
// DTOs
//

// SessionResponse is the JSON envelope for a session snapshot.
type SessionResponse struct {
	ID                 string             `json:"id"`
	Phase              domain.Phase       `json:"phase"`
	CurrentRound       int                `json:"current_round"`
	CompletedRounds    int                `json:"completed_rounds"`
	Scores             domain.StyleScores `json:"scores"`
	RecommendedStyle   *string            `json:"recommended_style,omitempty"`
	SecondBestStyle    *string            `json:"second_best_style,omitempty"`
	EstimatedRemaining *int               `json:"estimated_remaining,omitempty"`
}

// sessionResponse maps a domain session to its transport shape, attaching the
// remaining-rounds estimate when one is available.
func (h *Handlers) sessionResponse(s *domain.Session) SessionResponse {
	resp := SessionResponse{
		ID:               s.ID,
		Phase:            s.Phase,
		CurrentRound:     s.CurrentRound,
		CompletedRounds:  len(s.Choices),
		Scores:           s.Scores,
		RecommendedStyle: s.RecommendedStyle,
		SecondBestStyle:  s.SecondBestStyle,
	}
	if s.Phase == domain.PhaseDiscovery {
		if n, known := h.sessions.EstimateRemaining(s); known {
			resp.EstimatedRemaining = &n
		}
	}
	return resp
}

//
// Handlers
//

// LoadOrCreateSession godoc
// @ID          loadOrCreateSession
// @Summary     Load or create a quiz session
// @Description Returns the caller's session when the X-Session-ID header names a fresh one, otherwise creates a new session. Stale sessions are silently replaced.
// @Tags        Sessions
// @Produce     json
//
// @Param       X-Session-ID  header  string  false "Existing session id (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.SessionResponse  "Existing session"
// @Success     201  {object}  handlers.SessionResponse  "New session"
// @Failure     500  {object}  handlers.ErrorResponse    "Internal error"
// @Router      /sessions [post]
func (h *Handlers) LoadOrCreateSession(c *gin.Context) {
	s, created, err := h.sessions.LoadOrCreate(c.Request.Context(), sessionID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	c.Header("X-Session-ID", s.ID)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, h.sessionResponse(s))
}

// GetSession godoc
// @ID          getSession
// @Summary     Get the current session snapshot
// @Description Returns phase, round, scores, and recommendation state for the caller's session.
// @Tags        Sessions
// @Produce     json
//
// @Param       X-Session-ID  header  string  true "Session id (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.SessionResponse
// @Failure     404  {object}  handlers.ErrorResponse "Session not found or expired"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /sessions/current [get]
func (h *Handlers) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		failSession(c, err)
		return
	}
	ok(c, http.StatusOK, h.sessionResponse(s))
}

// ConfirmRecommendation godoc
// @ID          confirmRecommendation
// @Summary     Accept the recommended style
// @Description Marks the session complete. Valid only while a recommendation is being presented.
// @Tags        Sessions
// @Produce     json
//
// @Param       X-Session-ID  header  string  true "Session id (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.SessionResponse
// @Failure     404  {object}  handlers.ErrorResponse "Session not found or expired"
// @Failure     409  {object}  handlers.ErrorResponse "Not allowed in the current phase"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /sessions/current/confirm [post]
func (h *Handlers) ConfirmRecommendation(c *gin.Context) {
	s, err := h.sessions.ConfirmRecommendation(c.Request.Context(), sessionID(c))
	if err != nil {
		failSession(c, err)
		return
	}
	ok(c, http.StatusOK, h.sessionResponse(s))
}

// RejectRecommendation godoc
// @ID          rejectRecommendation
// @Summary     Reject the recommended style
// @Description Promotes the second-best style and moves the session to the alternatives phase.
// @Tags        Sessions
// @Produce     json
//
// @Param       X-Session-ID  header  string  true "Session id (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.SessionResponse
// @Failure     404  {object}  handlers.ErrorResponse "Session not found or expired"
// @Failure     409  {object}  handlers.ErrorResponse "No alternative style, or not allowed in the current phase"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /sessions/current/reject [post]
func (h *Handlers) RejectRecommendation(c *gin.Context) {
	s, err := h.sessions.RejectRecommendation(c.Request.Context(), sessionID(c))
	if err != nil {
		failSession(c, err)
		return
	}
	ok(c, http.StatusOK, h.sessionResponse(s))
}

// RestartSession godoc
// @ID          restartSession
// @Summary     Restart the quiz
// @Description Discards the current session and returns a brand-new one in the discovery phase.
// @Tags        Sessions
// @Produce     json
//
// @Param       X-Session-ID  header  string  false "Session id to discard (UUID)"  format(uuid)
//
// @Success     201  {object}  handlers.SessionResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /sessions/current/restart [post]
func (h *Handlers) RestartSession(c *gin.Context) {
	s, err := h.sessions.Restart(c.Request.Context(), sessionID(c))
	if err != nil {
		failSession(c, err)
		return
	}
	c.Header("X-Session-ID", s.ID)
	ok(c, http.StatusCreated, h.sessionResponse(s))
}

// failSession maps service-layer session errors onto the shared error
// envelope. Unknown errors become 500s.
func failSession(c *gin.Context, err error) {
	var ite *services.InvalidTransitionError
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "session not found or expired")
	case errors.Is(err, services.ErrNoAlternative):
		fail(c, http.StatusConflict, ErrCodeNoAlternative, "no alternative style available")
	case errors.Is(err, services.ErrNoRecommendation):
		fail(c, http.StatusConflict, ErrCodeNoRecommendation, "no recommendation yet")
	case errors.As(err, &ite):
		fail(c, http.StatusConflict, ErrCodeInvalidTransition, ite.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

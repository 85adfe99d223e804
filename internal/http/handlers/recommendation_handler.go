// Recommendation HTTP handlers.
//
// This file exposes the REST endpoint serving the recommendation set:
//   - GET /sessions/current/recommendations
//
// The set is rebuilt on every request so already-selected items stay excluded
// and the ordering within each match tier stays fresh.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-style-backend/internal/utils"
)

// clampCount parses the count query param, applying the configured default
// and the hard cap.
func (h *Handlers) clampCount(c *gin.Context) int {
	const (
		defaultCount = 10
		maxCount     = 50
	)
	def := h.RecommendCount
	if def < 1 {
		def = defaultCount
	}
	n := utils.AtoiDefault(c.Query("count"), def)
	if n < 1 {
		n = def
	}
	if n > maxCount {
		n = maxCount
	}
	return n
}

// GetRecommendations godoc
// @ID          getRecommendations
// @Summary     Get recommended items for the session's style
// @Description Returns catalog items matching the recommended style, primary matches first, excluding items the user already picked during the quiz.
// @Tags        Recommendations
// @Produce     json
//
// @Param       X-Session-ID  header  string  true  "Session id (UUID)"      format(uuid)
// @Param       count         query   int     false "Items to return"        minimum(1) maximum(50) default(10)
//
// @Success     200  {object}  services.RecommendationSet
// @Failure     404  {object}  handlers.ErrorResponse "Session not found or expired"
// @Failure     409  {object}  handlers.ErrorResponse "No recommendation yet"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /sessions/current/recommendations [get]
func (h *Handlers) GetRecommendations(c *gin.Context) {
	set, err := h.sessions.Recommendations(c.Request.Context(), sessionID(c), h.clampCount(c))
	if err != nil {
		failSession(c, err)
		return
	}
	ok(c, http.StatusOK, set)
}

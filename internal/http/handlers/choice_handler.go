// Choice HTTP handlers.
//
// This file exposes the REST endpoint for submitting one quiz round:
//   - POST /sessions/current/choices
//
// Handlers are transport-thin:
//   - validate & normalize inputs (including newline and length constraints)
//   - delegate to the session service, which scores and persists the round
//   - translate service errors into HTTP results (422 validation, 409 phase)
package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-style-backend/internal/services"
)

//
// DTOs
//

// SubmitChoiceRequest is the JSON payload for recording one quiz round.
//
// Rationale is normalized by the handler (line endings and excessive blank
// lines) before being passed to the service layer, which enforces the rune
// bounds.
type SubmitChoiceRequest struct {
	// SelectedItemID is the catalog item the user picked this round.
	SelectedItemID string `json:"selected_item_id" binding:"required" example:"item-004"`
	// RejectedItemID is the item shown alongside that the user passed on.
	RejectedItemID string `json:"rejected_item_id" binding:"required" example:"item-022"`
	// StyleTags carries the selected item's styles, primary first.
	StyleTags []string `json:"style_tags" binding:"required,min=1" example:"modern,minimalist"`
	// Rationale is the user's free-text explanation (10-500 characters).
	Rationale string `json:"rationale" binding:"required" example:"I love the clean lines and the warm wood tones"`
}

// SubmitChoiceResponse wraps the session state after a round is recorded.
type SubmitChoiceResponse struct {
	Session SessionResponse `json:"session"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeRationale normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeRationale(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

//
// Handlers
//

// SubmitChoice godoc
// @ID          submitChoice
// @Summary     Submit one quiz round
// @Description Records the user's pick for the round, rescoring the session and advancing it. May move the session to the recommendations phase when confidence converges.
// @Tags        Choices
// @Accept      json
// @Produce     json
//
// @Param       X-Session-ID  header  string  true  "Session id (UUID)"  format(uuid)
// @Param       body          body    handlers.SubmitChoiceRequest  true  "Round payload"
//
// @Success     200  {object}  handlers.SubmitChoiceResponse "Updated session"
// @Failure     400  {object}  handlers.ErrorResponse        "Malformed payload"
// @Failure     404  {object}  handlers.ErrorResponse        "Session not found or expired"
// @Failure     409  {object}  handlers.ErrorResponse        "Not allowed in the current phase"
// @Failure     422  {object}  handlers.ErrorResponse        "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse        "Internal error"
// @Router      /sessions/current/choices [post]
func (h *Handlers) SubmitChoice(c *gin.Context) {
	var req SubmitChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "selected_item_id, rejected_item_id, style_tags and rationale are required")
		return
	}

	// Sanitize + early size cap to fail fast at the edge.
	rationale := sanitizeRationale(req.Rationale)
	if utf8.RuneCountInString(rationale) > services.MaxRationaleRunes {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation,
			fmt.Sprintf("rationale too long: max %d characters", services.MaxRationaleRunes))
		return
	}

	in := services.ChoiceInput{
		SelectedItemID: strings.TrimSpace(req.SelectedItemID),
		RejectedItemID: strings.TrimSpace(req.RejectedItemID),
		StyleTags:      req.StyleTags,
		Rationale:      rationale,
	}

	s, err := h.sessions.SubmitChoice(c.Request.Context(), sessionID(c), in)
	if err != nil {
		switch {
		case isValidationErr(err):
			fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
		default:
			failSession(c, err)
		}
		return
	}

	ok(c, http.StatusOK, SubmitChoiceResponse{Session: h.sessionResponse(s)})
}

// isValidationErr reports whether err is one of the per-field input errors
// that map to HTTP 422 rather than 400/409.
func isValidationErr(err error) bool {
	switch err {
	case services.ErrRationaleTooShort, services.ErrRationaleTooLong, services.ErrMissingStyleTags:
		return true
	}
	return false
}

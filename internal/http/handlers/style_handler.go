// Style catalog HTTP handlers.
//
// This file exposes the read-only catalog endpoint:
//   - GET /styles
//
// The catalog is loaded once at startup, so responses are served straight
// from memory.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-style-backend/internal/catalog"
)

// StyleResponse is one catalog style in the listing.
type StyleResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	RelatedStyles []string `json:"related_styles,omitempty"`
}

// ListStylesResponse wraps the full style listing.
type ListStylesResponse struct {
	Styles []StyleResponse `json:"styles"`
}

// ListStyles godoc
// @ID          listStyles
// @Summary     List all interior design styles
// @Description Returns every style profile in the catalog with display names and related styles.
// @Tags        Styles
// @Produce     json
//
// @Success     200  {object}  handlers.ListStylesResponse
// @Router      /styles [get]
func (h *Handlers) ListStyles(c *gin.Context) {
	entries := h.catalog.Styles()
	out := make([]StyleResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, StyleResponse{
			ID:            e.ID,
			Name:          h.catalog.DisplayName(e.ID),
			Description:   e.Description,
			RelatedStyles: e.RelatedStyles,
		})
	}
	ok(c, http.StatusOK, ListStylesResponse{Styles: out})
}

// ensure the concrete catalog satisfies the handler-facing interface
var _ StyleCatalog = (*catalog.Catalog)(nil)

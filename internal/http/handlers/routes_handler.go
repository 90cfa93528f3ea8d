// Navigation surface.
//
// GET /routes exposes the fixed table of service destinations the client can
// navigate to. The table is derived from the same rule set that drives the
// voice intent router so the two surfaces cannot drift apart.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nkarpov/go-superapp-backend/internal/intent"
)

// NavRoute is one entry of the client navigation table.
type NavRoute struct {
	Route string `json:"route" example:"/taxi"`
	Title string `json:"title" example:"Такси"`
}

// ListRoutesResponse is the navigation table payload.
type ListRoutesResponse struct {
	Routes []NavRoute `json:"routes"`
}

// navTable is built once from the default intent rules. Rule order is kept.
var navTable = buildNavTable(intent.DefaultRules())

func buildNavTable(rules []intent.Rule) []NavRoute {
	out := make([]NavRoute, 0, len(rules))
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Route == "" || seen[r.Route] {
			continue
		}
		seen[r.Route] = true
		out = append(out, NavRoute{Route: r.Route, Title: r.Title})
	}
	return out
}

// ListRoutes godoc
// @ID          listRoutes
// @Summary     List navigation routes
// @Description Returns the fixed table of client navigation destinations, one entry per service.
// @Tags        Navigation
// @Produce     json
//
// @Success     200  {object} handlers.ListRoutesResponse
// @Router      /routes [get]
func (h *Handlers) ListRoutes(c *gin.Context) {
	ok(c, http.StatusOK, ListRoutesResponse{Routes: navTable})
}

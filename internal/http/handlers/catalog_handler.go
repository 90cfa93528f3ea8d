// Catalog HTTP handlers.
//
// This file exposes REST endpoints for the mock catalog sections
// (marketplace products, housing listings, food menu, interest groups):
//   - GET  /catalog/{section}                 (list, filter, search, sort)
//   - POST /catalog/{section}                 (create an item, prepended)
//   - POST /catalog/{section}/{id}/favorite   (toggle favorite)
//   - GET  /favorites                         (list the user's favorites)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nkarpov/go-superapp-backend/internal/catalog"
	"github.com/nkarpov/go-superapp-backend/internal/domain"
	"github.com/nkarpov/go-superapp-backend/internal/repo"
)

//
// DTOs
//

// CreateItemRequest is the JSON payload for adding a catalog item.
type CreateItemRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255" example:"Ноутбук 14\""`
	Description string  `json:"description" example:"Лёгкий, 16 ГБ памяти"`
	Category    string  `json:"category" example:"Электроника"`
	Price       float64 `json:"price" example:"74990"`
}

// ListItemsResponse wraps a section listing.
type ListItemsResponse struct {
	Section string         `json:"section"`
	Items   []catalog.Item `json:"items"`
	Total   int            `json:"total"`
}

// ToggleFavoriteResponse reports the resulting favorite state.
type ToggleFavoriteResponse struct {
	ItemID   string `json:"item_id"`
	Favorite bool   `json:"favorite"`
}

// ListFavoritesResponse wraps the user's favorites.
type ListFavoritesResponse struct {
	Favorites []domain.Favorite `json:"favorites"`
}

// section parses and validates the :section path parameter, writing a 404
// when the section is unknown.
func section(c *gin.Context) (catalog.Section, bool) {
	s, ok := catalog.ParseSection(c.Param("section"))
	if !ok {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "unknown catalog section")
	}
	return s, ok
}

//
// Handlers
//

// ListItems godoc
// @ID          listItems
// @Summary     List catalog items
// @Description Returns a section's items, newest first. Supports category filter, free-text search, and price sort.
// @Tags        Catalog
// @Produce     json
//
// @Param       section  path   string  true  "Section"  Enums(products, housing, food, groups)
// @Param       category query  string  false "Exact category filter"
// @Param       q        query  string  false "Free-text search query"
// @Param       sort     query  string  false "Price sort"  Enums(asc, desc)
//
// @Success     200  {object} handlers.ListItemsResponse
// @Failure     404  {object} handlers.ErrorResponse "Unknown section"
// @Router      /catalog/{section} [get]
func (h *Handlers) ListItems(c *gin.Context) {
	sec, okSec := section(c)
	if !okSec {
		return
	}

	items := h.catalog.List(sec, catalog.Query{
		Category:  c.Query("category"),
		Text:      c.Query("q"),
		SortPrice: strings.ToLower(c.Query("sort")),
	})

	ok(c, http.StatusOK, ListItemsResponse{
		Section: string(sec),
		Items:   items,
		Total:   len(items),
	})
}

// CreateItem godoc
// @ID          createItem
// @Summary     Add a catalog item
// @Description Creates an item in the section. New items appear first in subsequent listings.
// @Tags        Catalog
// @Accept      json
// @Produce     json
//
// @Param       section  path  string  true  "Section"  Enums(products, housing, food, groups)
// @Param       body     body  handlers.CreateItemRequest  true  "Item payload"
//
// @Success     201  {object} catalog.Item
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Unknown section"
// @Router      /catalog/{section} [post]
func (h *Handlers) CreateItem(c *gin.Context) {
	sec, okSec := section(c)
	if !okSec {
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "title required (1-255 chars)")
		return
	}
	if req.Price < 0 {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "price must not be negative")
		return
	}

	item := h.catalog.Create(sec, req.Title, req.Description, req.Category, req.Price)
	ok(c, http.StatusCreated, item)
}

// ToggleFavorite godoc
// @ID          toggleFavorite
// @Summary     Toggle a favorite
// @Description Flips the favorite flag on an item for the current user. Toggling twice restores the original state.
// @Tags        Catalog
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       section    path    string  true  "Section"  Enums(products, housing, food, groups)
// @Param       id         path    string  true  "Item ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.ToggleFavoriteResponse
// @Failure     404  {object} handlers.ErrorResponse "Unknown section or item"
// @Router      /catalog/{section}/{id}/favorite [post]
func (h *Handlers) ToggleFavorite(c *gin.Context) {
	sec, okSec := section(c)
	if !okSec {
		return
	}
	itemID := c.Param("id")
	if _, found := h.catalog.Get(sec, itemID); !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "item not found")
		return
	}

	fav, err := repo.ToggleFavorite(c.Request.Context(), h.db, userID(c), string(sec), itemID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, ToggleFavoriteResponse{ItemID: itemID, Favorite: fav})
}

// ListFavorites godoc
// @ID          listFavorites
// @Summary     List favorites
// @Description Returns the current user's favorites, optionally narrowed to one section, newest first.
// @Tags        Catalog
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       section    query   string  false "Section filter"  Enums(products, housing, food, groups)
//
// @Success     200  {object} handlers.ListFavoritesResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /favorites [get]
func (h *Handlers) ListFavorites(c *gin.Context) {
	secFilter := strings.ToLower(strings.TrimSpace(c.Query("section")))
	if secFilter != "" {
		if _, okSec := catalog.ParseSection(secFilter); !okSec {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown catalog section")
			return
		}
	}

	favs, err := repo.ListFavorites(c.Request.Context(), h.db, userID(c), secFilter)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if favs == nil {
		favs = []domain.Favorite{}
	}

	ok(c, http.StatusOK, ListFavoritesResponse{Favorites: favs})
}

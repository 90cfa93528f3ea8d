// Preferences and wallet HTTP handlers.
//
// This file exposes per-user settings endpoints:
//   - GET /preferences   (current language and theme, defaults before first save)
//   - PUT /preferences   (save language/theme)
//   - GET /wallet        (mock wallet, generated on first access)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nkarpov/go-superapp-backend/internal/services"
)

// UpdatePreferencesRequest is the JSON payload for saving preferences.
// Either field may be omitted to keep its current value.
type UpdatePreferencesRequest struct {
	Language string `json:"language" example:"ru"`
	Theme    string `json:"theme" example:"dark"`
}

// GetPreferences godoc
// @ID          getPreferences
// @Summary     Get preferences
// @Description Returns the user's saved language and theme, or the defaults before the first save.
// @Tags        Preferences
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} domain.Preference
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /preferences [get]
func (h *Handlers) GetPreferences(c *gin.Context) {
	p, err := h.prefsSvc.Get(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdatePreferences godoc
// @ID          updatePreferences
// @Summary     Save preferences
// @Description Persists language and/or theme for the user. Omitted fields keep their value.
// @Tags        Preferences
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.UpdatePreferencesRequest  true  "Preference payload"
//
// @Success     200  {object} domain.Preference
// @Failure     400  {object} handlers.ErrorResponse "Unsupported language or theme"
// @Router      /preferences [put]
func (h *Handlers) UpdatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.prefsSvc.Update(c.Request.Context(), userID(c), req.Language, req.Theme)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLanguage), errors.Is(err, services.ErrInvalidTheme):
			fail(c, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, p)
}

// GetWallet godoc
// @ID          getWallet
// @Summary     Get the mock wallet
// @Description Returns the user's demo wallet, generating it on first access. The key material is
// @Description random display-only data, not real cryptographic keys.
// @Tags        Preferences
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} domain.Wallet
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /wallet [get]
func (h *Handlers) GetWallet(c *gin.Context) {
	w, err := h.prefsSvc.Wallet(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, w)
}

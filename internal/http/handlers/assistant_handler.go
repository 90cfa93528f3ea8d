// Assistant HTTP handlers.
//
// This file exposes the voice and text command endpoints:
//   - POST /assistant/voice  (base64 audio clip -> transcript + navigation)
//   - POST /assistant/text   (typed command -> navigation)
//
// A command that matches no keyword rule is not an error: the response
// carries the transcript with no match, and the client shows it without
// navigating anywhere.
package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nkarpov/go-superapp-backend/internal/assistant"
)

//
// DTOs
//

// VoiceCommandRequest carries one recorded clip, base64-encoded.
type VoiceCommandRequest struct {
	Audio string `json:"audio" binding:"required,min=1"`
}

// TextCommandRequest carries one typed command.
type TextCommandRequest struct {
	Text string `json:"text" binding:"required,min=1" example:"вызови такси"`
}

//
// Handlers
//

// VoiceCommand godoc
// @ID          voiceCommand
// @Summary     Interpret a voice command
// @Description Sends the clip to the speech service, routes the transcript through the keyword
// @Description table, and returns the transcript plus the matched navigation target (if any).
// @Tags        Assistant
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.VoiceCommandRequest  true  "Base64-encoded audio clip"
//
// @Success     200  {object} assistant.Result
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     502  {object} handlers.ErrorResponse "Speech upstream failed"
// @Router      /assistant/voice [post]
func (h *Handlers) VoiceCommand(c *gin.Context) {
	var req VoiceCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "audio required")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "audio must be base64")
		return
	}

	res, err := h.voiceSvc.Voice(c.Request.Context(), audio)
	if err != nil {
		h.failAssistant(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// TextCommand godoc
// @ID          textCommand
// @Summary     Interpret a typed command
// @Description Routes the utterance through the same keyword table as voice commands.
// @Tags        Assistant
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.TextCommandRequest  true  "Typed command"
//
// @Success     200  {object} assistant.Result
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /assistant/text [post]
func (h *Handlers) TextCommand(c *gin.Context) {
	var req TextCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		return
	}

	res, err := h.voiceSvc.Text(c.Request.Context(), req.Text)
	if err != nil {
		h.failAssistant(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// failAssistant maps assistant service errors to HTTP responses.
func (h *Handlers) failAssistant(c *gin.Context, err error) {
	var apiErr *assistant.APIError
	switch {
	case errors.Is(err, assistant.ErrEmptyAudio), errors.Is(err, assistant.ErrEmptyUtterance):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.As(err, &apiErr):
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, "speech service is unavailable")
	default:
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, "speech service is unavailable")
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carewire/go-hospital-backend/internal/http/middleware"
	"github.com/carewire/go-hospital-backend/internal/services"
)

// AskRequest is the JSON payload for an assistant question.
type AskRequest struct {
	Prompt string `json:"prompt" binding:"required" example:"What are the visiting hours?"`
}

// AskResponse carries the assistant's answer.
type AskResponse struct {
	Answer string `json:"answer"`
}

// AskAssistant forwards a prompt to the portal assistant. Each user is
// limited to a fixed number of questions per minute; over-limit callers get
// a 429 and should retry later.
//
// @Summary     Ask the assistant
// @Tags        assistant
// @Accept      json
// @Produce     json
// @Param       body body AskRequest true "Prompt"
// @Success     200 {object} AskResponse
// @Failure     400 {object} ErrorResponse
// @Failure     429 {object} ErrorResponse
// @Failure     502 {object} ErrorResponse
// @Router      /assistant [post]
func (h *Handlers) AskAssistant(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "prompt is required")
		return
	}

	answer, err := h.asstSvc.Ask(c.Request.Context(), middleware.UserID(c), req.Prompt)
	switch {
	case err == nil:
		ok(c, http.StatusOK, AskResponse{Answer: answer})
	case errors.Is(err, services.ErrEmptyPrompt):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrRateLimited):
		c.Header("Retry-After", "60")
		fail(c, http.StatusTooManyRequests, ErrCodeRateLimited, err.Error())
	default:
		middleware.LoggerFrom(c).Error().Err(err).Msg("assistant answer failed")
		fail(c, http.StatusBadGateway, ErrCodeAnswerFailed, "assistant is unavailable, try again later")
	}
}

// Chat HTTP handlers.
//
// This file exposes REST endpoints for the conversation surface:
//   - POST /conversations                      (derive a conversation key)
//   - GET  /conversations/{key}/messages       (history, optionally paginated)
//   - POST /conversations/{key}/messages       (send text)
//   - POST /conversations/{key}/attachments    (multipart upload)
//   - GET  /messages/{id}/attachment           (download)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carewire/go-hospital-backend/internal/conversation"
	"github.com/carewire/go-hospital-backend/internal/domain"
	"github.com/carewire/go-hospital-backend/internal/http/middleware"
	"github.com/carewire/go-hospital-backend/internal/repo"
	"github.com/carewire/go-hospital-backend/internal/services"
	"github.com/carewire/go-hospital-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ChatService defines the conversation operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// StartConversation resolves a recipient spec into a conversation key.
	StartConversation(ctx context.Context, requesterID, recipientSpec string) (string, error)
	// SendMessage persists a text message and notifies the other participants.
	SendMessage(ctx context.Context, senderID, senderRole, key, text string) (*domain.ChatMessage, error)
	// UploadAttachment persists a binary attachment with an optional caption.
	UploadAttachment(ctx context.Context, senderID, senderRole, key, fileName, contentType string, data []byte, caption string) (*domain.ChatMessage, error)
	// History returns a conversation's messages oldest first plus the total.
	History(ctx context.Context, requesterID, key string, offset, limit int) ([]domain.ChatMessage, int64, error)
	// DownloadAttachment fetches an attachment by message id.
	DownloadAttachment(ctx context.Context, requesterID, messageID string) (*domain.ChatMessage, error)
}

// NotificationService defines the inbox operations consumed by HTTP handlers.
type NotificationService interface {
	List(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// AssistantService defines the gated assistant entry point.
type AssistantService interface {
	Ask(ctx context.Context, userID, prompt string) (string, error)
}

// ChannelHub is the live-channel registry consumed by the events endpoint.
type ChannelHub interface {
	Register(userID string) *LiveChannel
	Unregister(c *LiveChannel)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the communication core. It depends
// on abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	chatSvc  ChatService
	notifSvc NotificationService
	asstSvc  AssistantService
	hub      ChannelHub
}

// New constructs a Handlers instance bound to the given services. asstSvc
// and hub may be nil when the corresponding endpoints are not mounted.
func New(chatSvc ChatService, notifSvc NotificationService, asstSvc AssistantService, hub ChannelHub) *Handlers {
	return &Handlers{chatSvc: chatSvc, notifSvc: notifSvc, asstSvc: asstSvc, hub: hub}
}

//
// DTOs
//

// StartConversationRequest is the JSON payload for deriving a conversation key.
type StartConversationRequest struct {
	// Recipients is a comma- or whitespace-separated list of usernames.
	Recipients string `json:"recipients" binding:"required" example:"charlie, bob"`
}

// StartConversationResponse returns the canonical conversation key.
type StartConversationResponse struct {
	ConversationKey string `json:"conversation_key" example:"group-alice-bob-charlie"`
}

// SendMessageRequest is the JSON payload for sending a text message.
type SendMessageRequest struct {
	Text string `json:"text" binding:"required" example:"See you at 10"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// HistoryResponse wraps a conversation's messages. Pagination is only set
// when the client asked for a page; the default is the full history.
type HistoryResponse struct {
	Messages   []domain.ChatMessage `json:"messages"`
	Pagination *Pagination          `json:"pagination,omitempty"`
}

//
// Helpers
//

// failFromErr maps service-layer errors onto HTTP responses with stable codes.
func failFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrInvalidParticipants):
		fail(c, http.StatusBadRequest, ErrCodeInvalidParticipants, err.Error())
	case errors.Is(err, conversation.ErrNotMember):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, repo.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "resource not found")
	case errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrNoAttachment),
		errors.Is(err, services.ErrEmptyPrompt):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrRateLimited):
		fail(c, http.StatusTooManyRequests, ErrCodeRateLimited, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeStorageFailure, "operation failed")
	}
}

// historyWindow parses optional page/page_size query params. Absent params
// select the full history (offset 0, limit 0).
func historyWindow(c *gin.Context) (offset, limit, page, pageSize int) {
	page = utils.AtoiDefault(c.Query("page"), 0)
	pageSize = utils.AtoiDefault(c.Query("page_size"), 0)
	offset, limit = utils.PageWindow(page, pageSize, 200)
	if limit == 0 {
		return 0, 0, 0, 0
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return offset, limit, page, pageSize
}

//
// Endpoints
//

// StartConversation derives the canonical conversation key for the
// requester plus the given recipients.
//
// @Summary     Start (or address) a conversation
// @Tags        chat
// @Accept      json
// @Produce     json
// @Param       body body StartConversationRequest true "Recipients"
// @Success     200 {object} StartConversationResponse
// @Failure     400 {object} ErrorResponse
// @Router      /conversations [post]
func (h *Handlers) StartConversation(c *gin.Context) {
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipients is required")
		return
	}

	key, err := h.chatSvc.StartConversation(c.Request.Context(), middleware.UserID(c), req.Recipients)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, StartConversationResponse{ConversationKey: key})
}

// SendMessage appends a text message to a conversation.
//
// @Summary     Send a message
// @Tags        chat
// @Accept      json
// @Produce     json
// @Param       key  path string             true "Conversation key"
// @Param       body body SendMessageRequest true "Message"
// @Success     201 {object} domain.ChatMessage
// @Failure     400 {object} ErrorResponse
// @Failure     403 {object} ErrorResponse
// @Router      /conversations/{key}/messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text is required")
		return
	}

	m, err := h.chatSvc.SendMessage(c.Request.Context(),
		middleware.UserID(c), middleware.UserRole(c), c.Param("key"), req.Text)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, m)
}

// UploadAttachment stores a binary attachment sent as multipart form data
// under the field "file", with an optional "caption" field.
//
// @Summary     Upload an attachment
// @Tags        chat
// @Accept      multipart/form-data
// @Produce     json
// @Param       key     path     string true  "Conversation key"
// @Param       file    formData file   true  "Attachment"
// @Param       caption formData string false "Caption"
// @Success     201 {object} domain.ChatMessage
// @Failure     400 {object} ErrorResponse
// @Failure     403 {object} ErrorResponse
// @Router      /conversations/{key}/attachments [post]
func (h *Handlers) UploadAttachment(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cannot read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cannot read file")
		return
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	m, err := h.chatSvc.UploadAttachment(c.Request.Context(),
		middleware.UserID(c), middleware.UserRole(c), c.Param("key"),
		fh.Filename, contentType, data, c.PostForm("caption"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, m)
}

// GetHistory lists a conversation's messages oldest first. Without query
// params the full history is returned; page/page_size select a window.
//
// @Summary     Conversation history
// @Tags        chat
// @Produce     json
// @Param       key       path  string true  "Conversation key"
// @Param       page      query int    false "Page (1-based)"
// @Param       page_size query int    false "Page size (max 200)"
// @Success     200 {object} HistoryResponse
// @Failure     403 {object} ErrorResponse
// @Router      /conversations/{key}/messages [get]
func (h *Handlers) GetHistory(c *gin.Context) {
	offset, limit, page, pageSize := historyWindow(c)

	items, total, err := h.chatSvc.History(c.Request.Context(),
		middleware.UserID(c), c.Param("key"), offset, limit)
	if err != nil {
		failFromErr(c, err)
		return
	}
	if items == nil {
		items = []domain.ChatMessage{}
	}

	resp := HistoryResponse{Messages: items}
	if pageSize > 0 {
		totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
		resp.Pagination = &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		}
	}
	ok(c, http.StatusOK, resp)
}

// DownloadAttachment streams a stored attachment. The response carries the
// stored content type and a content-disposition hint with the original file
// name, so clients can render or save it without extra metadata calls.
//
// @Summary     Download an attachment
// @Tags        chat
// @Produce     octet-stream
// @Param       id path string true "Message id"
// @Success     200 {file} binary
// @Failure     403 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /messages/{id}/attachment [get]
func (h *Handlers) DownloadAttachment(c *gin.Context) {
	m, err := h.chatSvc.DownloadAttachment(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", m.FileName))
	c.Data(http.StatusOK, m.ContentType, m.Data)
}

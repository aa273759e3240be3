package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carewire/go-hospital-backend/internal/domain"
	"github.com/carewire/go-hospital-backend/internal/http/middleware"
	"github.com/carewire/go-hospital-backend/internal/utils"
)

// NotificationsResponse wraps the notification inbox listing.
type NotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

// UnreadCountResponse reports the number of unread notifications.
type UnreadCountResponse struct {
	Unread int64 `json:"unread" example:"3"`
}

// MarkAllReadResponse reports how many notifications were flipped to read.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated" example:"5"`
}

// ListNotifications returns the caller's inbox, newest first.
//
// @Summary     List notifications
// @Tags        notifications
// @Produce     json
// @Param       page      query int false "Page (1-based)"
// @Param       page_size query int false "Page size (default 20, -1 for all)"
// @Success     200 {object} NotificationsResponse
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	page := utils.AtoiDefault(c.Query("page"), 1)
	pageSize := utils.AtoiDefault(c.Query("page_size"), 0)

	items, err := h.notifSvc.List(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}
	if items == nil {
		items = []domain.Notification{}
	}
	ok(c, http.StatusOK, NotificationsResponse{Notifications: items})
}

// UnreadCount returns the caller's unread notification count, suitable for
// badge polling.
//
// @Summary     Unread notification count
// @Tags        notifications
// @Produce     json
// @Success     200 {object} UnreadCountResponse
// @Router      /notifications/unread-count [get]
func (h *Handlers) UnreadCount(c *gin.Context) {
	n, err := h.notifSvc.UnreadCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, UnreadCountResponse{Unread: n})
}

// MarkNotificationRead marks a single notification as read. Ownership is
// enforced: a caller cannot mark another user's notification.
//
// @Summary     Mark a notification read
// @Tags        notifications
// @Param       id path string true "Notification id"
// @Success     204 "No Content"
// @Failure     404 {object} ErrorResponse
// @Router      /notifications/{id}/read [post]
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	if err := h.notifSvc.MarkRead(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// MarkAllNotificationsRead marks every unread notification of the caller as
// read and reports the number updated.
//
// @Summary     Mark all notifications read
// @Tags        notifications
// @Produce     json
// @Success     200 {object} MarkAllReadResponse
// @Router      /notifications/read-all [post]
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.notifSvc.MarkAllRead(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, MarkAllReadResponse{Updated: n})
}

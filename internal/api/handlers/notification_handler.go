package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/procurement/internal/service"
	"example.com/procurement/internal/tracing"
)

// NotificationHandler handles notification inbox HTTP requests
type NotificationHandler struct {
	notifications service.NotificationService
	tracer        tracing.Tracer
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications service.NotificationService, tracer tracing.Tracer) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		tracer:        tracer,
	}
}

// HandleListNotifications lists unread notifications for a user or role
func (h *NotificationHandler) HandleListNotifications(c *gin.Context) {
	list, err := h.notifications.ListUnread(c, c.Query("user_id"), c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// HandleMarkRead acknowledges a notification
func (h *NotificationHandler) HandleMarkRead(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-mark-notification-read")
	defer h.tracer.EndTransaction(txn)

	if err := h.notifications.MarkRead(c, c.Param("id")); err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RegisterRoutes registers the handler's routes
func (h *NotificationHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/notifications", h.HandleListNotifications)
	router.POST("/notifications/:id/read", h.HandleMarkRead)
}

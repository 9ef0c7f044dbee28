package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blood-donation-service/internal/application"
	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	"github.com/oksasatya/blood-donation-service/internal/interface/middleware"
	"github.com/oksasatya/blood-donation-service/pkg/response"
)

// NotificationUseCases is implemented by *application.NotificationService.
type NotificationUseCases interface {
	RequestBlood(ctx context.Context, requesterID int64, in application.BloodRequestInput) (int, error)
	NotifySpecificDonor(ctx context.Context, requesterID, donorUserID int64, bloodGroup string) (*entity.Notification, error)
	ListMine(ctx context.Context, userID int64, limit int) ([]entity.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type NotificationHandler struct {
	Svc    NotificationUseCases
	Logger *logrus.Logger
}

func NewNotificationHandler(svc NotificationUseCases, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

// The location is accepted for compatibility and ignored; the requester's
// stored location is used.
type notifyDonorRequest struct {
	BloodGroup string `json:"blood_group" binding:"required"`
	Location   string `json:"location"`
}

type listQuery struct {
	Limit int `form:"limit"`
}

func (h *NotificationHandler) RequestBlood(c *gin.Context) {
	var in application.BloodRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badPayload(c, err)
		return
	}
	n, err := h.Svc.RequestBlood(c.Request.Context(), middleware.ActorFrom(c).UserID, in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusCreated, map[string]any{"notified": n}, "blood request sent", nil)
}

func (h *NotificationHandler) NotifyDonor(c *gin.Context) {
	donorUserID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	var req notifyDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	n, err := h.Svc.NotifySpecificDonor(c.Request.Context(), middleware.ActorFrom(c).UserID, donorUserID, req.BloodGroup)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toNotification(*n), "donor notified", nil)
}

func (h *NotificationHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	ns, err := h.Svc.ListMine(c.Request.Context(), middleware.ActorFrom(c).UserID, q.Limit)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, toNotifications(ns), "notifications")
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.Svc.CountUnread(c.Request.Context(), middleware.ActorFrom(c).UserID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"unread": n}, "unread count", nil)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.Svc.MarkAllRead(c.Request.Context(), middleware.ActorFrom(c).UserID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"updated": n}, "notifications marked as read", nil)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.MarkRead(c.Request.Context(), middleware.ActorFrom(c).UserID, id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"id": id, "is_read": true}, "notification marked as read", nil)
}

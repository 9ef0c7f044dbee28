package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	"github.com/oksasatya/blood-donation-service/internal/interface/middleware"
	"github.com/oksasatya/blood-donation-service/pkg/response"
)

// ApplicationUseCases is implemented by *application.ApplicationService.
type ApplicationUseCases interface {
	Apply(ctx context.Context, userID, eventID int64, applicationType string) (*entity.Application, error)
	UpdateStatus(ctx context.Context, actor entity.Actor, applicationID int64, status string) (*entity.Application, error)
	GetHistory(ctx context.Context, userID int64) ([]entity.ApplicationHistoryItem, error)
	GetAll(ctx context.Context, actor entity.Actor) ([]entity.ApplicationAdminView, error)
}

type ApplicationHandler struct {
	Svc    ApplicationUseCases
	Logger *logrus.Logger
}

func NewApplicationHandler(svc ApplicationUseCases, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{Svc: svc, Logger: logger}
}

type applyRequest struct {
	ApplicationType string `json:"application_type" binding:"required,oneof=donor volunteer"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	a, err := h.Svc.Apply(c.Request.Context(), middleware.ActorFrom(c).UserID, eventID, req.ApplicationType)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toApplication(*a), "application submitted", nil)
}

func (h *ApplicationHandler) History(c *gin.Context) {
	items, err := h.Svc.GetHistory(c.Request.Context(), middleware.ActorFrom(c).UserID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, toHistory(items), "application history")
}

func (h *ApplicationHandler) All(c *gin.Context) {
	views, err := h.Svc.GetAll(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, toAdminApplications(views), "applications")
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	a, err := h.Svc.UpdateStatus(c.Request.Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toApplication(*a), "application status updated", nil)
}

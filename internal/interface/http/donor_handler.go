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

// DonorUseCases is implemented by *application.DonorService.
type DonorUseCases interface {
	Register(ctx context.Context, userID int64, in application.RegisterDonorInput) (*entity.DonorView, error)
	SetStatus(ctx context.Context, actor entity.Actor, donorID int64, status string) (*entity.DonorView, error)
	ListAvailable(ctx context.Context) ([]entity.DonorView, error)
	ListAll(ctx context.Context) ([]entity.DonorView, error)
	FindByUser(ctx context.Context, userID int64) (*entity.DonorView, error)
	Delete(ctx context.Context, actor entity.Actor, donorID int64) error
	Search(ctx context.Context, q entity.DonorSearchQuery) ([]entity.DonorView, error)
}

type DonorHandler struct {
	Svc    DonorUseCases
	Logger *logrus.Logger
}

func NewDonorHandler(svc DonorUseCases, logger *logrus.Logger) *DonorHandler {
	return &DonorHandler{Svc: svc, Logger: logger}
}

type searchQuery struct {
	City       string `form:"city"`
	BloodGroup string `form:"blood_group"`
	Status     string `form:"status"`
	Size       int    `form:"size" binding:"omitempty,min=1,max=100"`
}

// Register binds the payload and leaves field validation to the service.
func (h *DonorHandler) Register(c *gin.Context) {
	var in application.RegisterDonorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badPayload(c, err)
		return
	}
	v, err := h.Svc.Register(c.Request.Context(), middleware.ActorFrom(c).UserID, in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toDonor(*v), "donor registered", nil)
}

func (h *DonorHandler) Me(c *gin.Context) {
	v, err := h.Svc.FindByUser(c.Request.Context(), middleware.ActorFrom(c).UserID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toDonor(*v), "donor profile", nil)
}

func (h *DonorHandler) Available(c *gin.Context) {
	vs, err := h.Svc.ListAvailable(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, toDonors(vs), "available donors")
}

func (h *DonorHandler) All(c *gin.Context) {
	vs, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, toDonors(vs), "donors")
}

func (h *DonorHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	vs, err := h.Svc.Search(c.Request.Context(), entity.DonorSearchQuery{
		City:       q.City,
		BloodGroup: entity.BloodGroup(q.BloodGroup),
		Status:     entity.DonorStatus(q.Status),
		Size:       q.Size,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, toDonors(vs), "donor search")
}

func (h *DonorHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	v, err := h.Svc.SetStatus(c.Request.Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toDonor(*v), "donor status updated", nil)
}

func (h *DonorHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "donor deleted", nil)
}

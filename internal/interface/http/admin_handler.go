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

type AdminUseCases interface {
	DeleteUser(ctx context.Context, actor entity.Actor, userID int64) error
}

type AdminHandler struct {
	Svc    AdminUseCases
	Logger *logrus.Logger
}

func NewAdminHandler(svc AdminUseCases, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteUser(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true, "id": id}, "user deleted", nil)
}

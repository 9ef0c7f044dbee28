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

type LedgerReader interface {
	Snapshot(ctx context.Context, userID int64) (*entity.LedgerSnapshot, error)
}

type LedgerHandler struct {
	Svc    LedgerReader
	Logger *logrus.Logger
}

func NewLedgerHandler(svc LedgerReader, logger *logrus.Logger) *LedgerHandler {
	return &LedgerHandler{Svc: svc, Logger: logger}
}

func (h *LedgerHandler) Me(c *gin.Context) {
	s, err := h.Svc.Snapshot(c.Request.Context(), middleware.ActorFrom(c).UserID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toLedger(*s), "donation ledger", nil)
}

package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/blood-donation-service/internal/interface/http"
)

// NotificationModule serves the inbox and the two send paths. Sends share one
// per-user limiter.
type NotificationModule struct {
	Handler *handlers.NotificationHandler
	Auth    gin.HandlerFunc
	Limit   gin.HandlerFunc
}

func NewNotificationModule(h *handlers.NotificationHandler, auth, limit gin.HandlerFunc) *NotificationModule {
	return &NotificationModule{Handler: h, Auth: auth, Limit: limit}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/notifications", m.Auth)
	g.POST("/blood-requests", m.Limit, m.Handler.RequestBlood)
	g.POST("/donors/:userId", m.Limit, m.Handler.NotifyDonor)
	g.GET("", m.Handler.List)
	g.GET("/unread-count", m.Handler.UnreadCount)
	g.PATCH("/read-all", m.Handler.MarkAllRead)
	g.PATCH("/:id/read", m.Handler.MarkRead)
}

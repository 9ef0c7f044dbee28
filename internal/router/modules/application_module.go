package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/blood-donation-service/internal/interface/http"
)

// ApplicationModule wires event applications and the donation ledger.
// User: POST /events/:id/applications, GET /applications/me, GET /ledger/me
// Admin: GET /admin/applications, PATCH /admin/applications/:id/status
type ApplicationModule struct {
	Handler *handlers.ApplicationHandler
	Ledger  *handlers.LedgerHandler
	Auth    gin.HandlerFunc
	Admin   gin.HandlerFunc
}

func NewApplicationModule(h *handlers.ApplicationHandler, ledger *handlers.LedgerHandler, auth, admin gin.HandlerFunc) *ApplicationModule {
	return &ApplicationModule{Handler: h, Ledger: ledger, Auth: auth, Admin: admin}
}

func (m *ApplicationModule) Register(rg *gin.RouterGroup) {
	user := rg.Group("", m.Auth)
	user.POST("/events/:id/applications", m.Handler.Apply)
	user.GET("/applications/me", m.Handler.History)
	user.GET("/ledger/me", m.Ledger.Me)

	admin := rg.Group("/admin", m.Auth, m.Admin)
	admin.GET("/applications", m.Handler.All)
	admin.PATCH("/applications/:id/status", m.Handler.UpdateStatus)
}

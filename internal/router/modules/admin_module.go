package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/blood-donation-service/internal/interface/http"
)

type AdminModule struct {
	Handler *handlers.AdminHandler
	Auth    gin.HandlerFunc
	Admin   gin.HandlerFunc
}

func NewAdminModule(h *handlers.AdminHandler, auth, admin gin.HandlerFunc) *AdminModule {
	return &AdminModule{Handler: h, Auth: auth, Admin: admin}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	rg.DELETE("/admin/users/:id", m.Auth, m.Admin, m.Handler.DeleteUser)
}

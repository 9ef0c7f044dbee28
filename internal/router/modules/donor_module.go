package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/blood-donation-service/internal/interface/http"
)

type DonorModule struct {
	Handler *handlers.DonorHandler
	Auth    gin.HandlerFunc
	Admin   gin.HandlerFunc
}

func NewDonorModule(h *handlers.DonorHandler, auth, admin gin.HandlerFunc) *DonorModule {
	return &DonorModule{Handler: h, Auth: auth, Admin: admin}
}

func (m *DonorModule) Register(rg *gin.RouterGroup) {
	user := rg.Group("/donors", m.Auth)
	user.POST("", m.Handler.Register)
	user.GET("/me", m.Handler.Me)
	user.GET("/available", m.Handler.Available)
	user.GET("/search", m.Handler.Search)
	user.DELETE("/:id", m.Handler.Delete)

	admin := rg.Group("/admin/donors", m.Auth, m.Admin)
	admin.GET("", m.Handler.All)
	admin.PATCH("/:id/status", m.Handler.SetStatus)
}

package router

import "github.com/gin-gonic/gin"

// Module is a feature slice (applications, donors, notifications, admin,
// debug) that mounts its routes on the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
)

// AllowPrivateIP returns an AllowFunc that accepts requests from private or
// loopback addresses.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := ipFromCtx(c)
		parsed := net.ParseIP(ip)
		if parsed == nil {
			return false
		}
		// 10.0.0.0/8, 172.16/12, 192.168/16, loopback
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// AllowAdmin lets admins through. It must run after Auth.
func AllowAdmin() AllowFunc {
	return func(c *gin.Context) bool {
		return ActorFrom(c).IsAdmin()
	}
}

// OnlyFrom rejects requests that allow does not accept with 404, hiding the route.
func OnlyFrom(allow AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Next()
	}
}

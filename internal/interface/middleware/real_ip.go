package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxRealIP = "real_ip"

// proxy headers checked in order; X-Forwarded-For contributes its left-most hop
var ipHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP stores the caller's address under "real_ip" for the rate limiter and
// the private-network gate.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxRealIP, forwardedIP(c))
		c.Next()
	}
}

func forwardedIP(c *gin.Context) string {
	for _, h := range ipHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		first, _, _ := strings.Cut(v, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(ctxRealIP); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	"github.com/oksasatya/blood-donation-service/pkg/helpers"
	"github.com/oksasatya/blood-donation-service/pkg/response"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

func sessionKey(userID int64) string {
	return "user:session:" + strconv.FormatInt(userID, 10)
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if tok, err := c.Cookie("access_token"); err == nil {
		return tok
	}
	return ""
}

// Auth verifies the access token from the Authorization header or the
// access_token cookie and sets userID (int64) and userRole on the context.
// With requireSession, a "user:session:<id>" hash must also exist in Redis.
func Auth(jwt *helpers.JWTManager, rdb *redis.Client, requireSession bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}
		role := entity.Role(claims.Role)
		if !role.Valid() {
			role = entity.RoleUser
		}

		if requireSession && rdb != nil {
			data, err := rdb.HGetAll(c.Request.Context(), sessionKey(claims.UserID)).Result()
			if err != nil || len(data) == 0 {
				response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
				c.Abort()
				return
			}
			if sid := data["session_id"]; sid != "" && claims.SessionID != "" && sid != claims.SessionID {
				response.Error[any](c, http.StatusUnauthorized, "session revoked", nil)
				c.Abort()
				return
			}
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserRole, string(role))
		c.Next()
	}
}

// RequireRole rejects callers whose role differs from role. It must run after Auth.
func RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ActorFrom(c).Role != role {
			response.Error[any](c, http.StatusForbidden, "forbidden", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorFrom returns the caller set by Auth. UserID is 0 when unauthenticated.
func ActorFrom(c *gin.Context) entity.Actor {
	return entity.Actor{
		UserID: c.GetInt64(ctxUserID),
		Role:   entity.Role(c.GetString(ctxUserRole)),
	}
}

package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/blood-donation-service/internal/interface/http"
	"github.com/oksasatya/blood-donation-service/internal/interface/middleware"
)

// DebugModule exposes liveness publicly and expvar/Prometheus to private
// addresses only.
type DebugModule struct {
	Health  *handlers.HealthHandler
	Redis   *redis.Client
	Expvar  bool
	Metrics bool
}

func NewDebugModule(health *handlers.HealthHandler, rdb *redis.Client, expvarEnabled, metricsEnabled bool) *DebugModule {
	return &DebugModule{Health: health, Redis: rdb, Expvar: expvarEnabled, Metrics: metricsEnabled}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Health.Healthz)

	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), nil)
	private := middleware.OnlyFrom(middleware.AllowPrivateIP())
	if m.Expvar {
		rg.GET("/debug/vars", private, rl, gin.WrapH(expvar.Handler()))
	}
	if m.Metrics {
		rg.GET("/metrics", private, rl, gin.WrapH(promhttp.Handler()))
	}
}

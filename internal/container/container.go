package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blood-donation-service/config"
	"github.com/oksasatya/blood-donation-service/internal/application"
	"github.com/oksasatya/blood-donation-service/internal/domain/repository"
	"github.com/oksasatya/blood-donation-service/internal/infrastructure/search"
	"github.com/oksasatya/blood-donation-service/pkg/helpers"
	"github.com/oksasatya/blood-donation-service/pkg/metrics"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	appMetrics *metrics.Metrics

	rabbitPub  *helpers.RabbitPublisher
	donorIndex *search.DonorIndex
)

func SetConfig(c *config.Config)    { cfg = c }
func GetConfig() *config.Config     { return cfg }
func SetLogger(l *logrus.Logger)    { logger = l }
func GetLogger() *logrus.Logger     { return logger }
func SetPGPool(p *pgxpool.Pool)     { pgPool = p }
func GetPGPool() *pgxpool.Pool      { return pgPool }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetJWT(m *helpers.JWTManager)  { jwtManager = m }
func GetJWT() *helpers.JWTManager   { return jwtManager }
func SetMetrics(m *metrics.Metrics) { appMetrics = m }
func GetMetrics() *metrics.Metrics  { return appMetrics }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func SetDonorIndex(i *search.DonorIndex)      { donorIndex = i }

// GetMailPublisher returns nil when no broker is configured.
func GetMailPublisher() application.MailPublisher {
	if rabbitPub == nil {
		return nil
	}
	return rabbitPub
}

// GetDonorIndex returns nil when search is disabled.
func GetDonorIndex() repository.DonorIndex {
	if donorIndex == nil {
		return nil
	}
	return donorIndex
}

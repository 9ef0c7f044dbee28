package router

import (
	"github.com/oksasatya/blood-donation-service/internal/application"
	"github.com/oksasatya/blood-donation-service/internal/container"
	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	pginfra "github.com/oksasatya/blood-donation-service/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/blood-donation-service/internal/interface/http"
	"github.com/oksasatya/blood-donation-service/internal/interface/middleware"
	"github.com/oksasatya/blood-donation-service/internal/router/modules"
	mailtpl "github.com/oksasatya/blood-donation-service/pkg/mailer/templates"
)

// Services groups the application layer built from the container.
type Services struct {
	Applications  *application.ApplicationService
	Ledger        *application.LedgerService
	Donors        *application.DonorService
	Notifications *application.NotificationService
	Admin         *application.AdminService
}

func buildServices() Services {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()
	m := container.GetMetrics()
	index := container.GetDonorIndex()

	tx := pginfra.NewTxManager(pool, logger)
	users := pginfra.NewUserRepository(pool)
	ledger := pginfra.NewLedgerRepository(pool)
	events := pginfra.NewEventRepository(pool)
	apps := pginfra.NewApplicationRepository(pool)
	donors := pginfra.NewDonorRepository(pool)
	notifications := pginfra.NewNotificationRepository(pool)

	var mail application.MailPublisher
	if cfg.MailSendEnabled {
		mail = container.GetMailPublisher()
	}

	policy := application.ParseRegistrationPolicy(cfg.DonorRegistrationPolicy)
	brand := mailtpl.BrandFromConfig(cfg)

	return Services{
		Applications:  application.NewApplicationService(tx, apps, events, ledger, logger, m),
		Ledger:        application.NewLedgerService(ledger),
		Donors:        application.NewDonorService(tx, donors, index, policy, logger, m),
		Notifications: application.NewNotificationService(tx, users, notifications, mail, container.GetRedis(), brand, cfg.NotificationListLimit, logger, m),
		Admin:         application.NewAdminService(tx, users, donors, apps, notifications, index, logger),
	}
}

// InitModules builds the services from the container and adds every feature
// module to r. Call once at start-up, before RegisterAll.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	svc := buildServices()

	auth := middleware.Auth(container.GetJWT(), rdb, cfg.AuthRequireSession)
	admin := middleware.RequireRole(entity.RoleAdmin)
	sendLimit := middleware.RateLimit(rdb, cfg.BloodRequestRateLimit, cfg.BloodRequestRateWindow,
		middleware.KeyByUserID(), middleware.AllowAdmin())

	r.Add(
		modules.NewApplicationModule(
			handlers.NewApplicationHandler(svc.Applications, logger),
			handlers.NewLedgerHandler(svc.Ledger, logger),
			auth, admin,
		),
		modules.NewDonorModule(handlers.NewDonorHandler(svc.Donors, logger), auth, admin),
		modules.NewNotificationModule(handlers.NewNotificationHandler(svc.Notifications, logger), auth, sendLimit),
		modules.NewAdminModule(handlers.NewAdminHandler(svc.Admin, logger), auth, admin),
		modules.NewDebugModule(
			handlers.NewHealthHandler(container.GetPGPool()),
			rdb, cfg.DebugMetricsEnabled, cfg.MetricsEnabled,
		),
	)
}

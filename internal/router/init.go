package router

import (
	"github.com/memoria-app/memoria/internal/application"
	"github.com/memoria-app/memoria/internal/container"
	"github.com/memoria-app/memoria/internal/infrastructure/gcs"
	pginfra "github.com/memoria-app/memoria/internal/infrastructure/postgres"
	handlers "github.com/memoria-app/memoria/internal/interface/http"
	"github.com/memoria-app/memoria/internal/router/modules"
	"github.com/memoria-app/memoria/pkg/helpers"
)

// Deps holds every constructed service and handler so modules can share
// repositories instead of each building their own.
type Deps struct {
	Users     *application.UserService
	Moments   *application.MomentService
	Memories  *application.MemoryService
	Analytics *application.AnalyticsService

	AuthHandler      *handlers.AuthHandler
	MomentHandler    *handlers.MomentHandler
	MemoryHandler    *handlers.MemoryHandler
	AnalyticsHandler *handlers.AnalyticsHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(pool)
	momentRepo := pginfra.NewMomentRepository(pool)
	memoryRepo := pginfra.NewMemoryRepository(pool)
	analyticsRepo := pginfra.NewAnalyticsRepository(pool)

	var blobs application.BlobStorage
	if client := container.GetGCS(); client != nil && cfg.GCSBucket != "" {
		blobs = gcs.NewBlobStore(client, cfg.GCSBucket)
	}

	users := application.NewUserService(userRepo, container.GetJWT(), container.GetRedis(), logger, container.GetRabbitPub())
	moments := application.NewMomentService(momentRepo, memoryRepo, blobs, logger, container.GetES(), cfg.ESMomentsIndex)
	memories := application.NewMemoryService(memoryRepo, momentRepo, blobs, logger)
	analytics := application.NewAnalyticsService(analyticsRepo, cfg.TagCloudLimit, cfg.TimelineWindowDays)

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	return Deps{
		Users:     users,
		Moments:   moments,
		Memories:  memories,
		Analytics: analytics,

		AuthHandler:      handlers.NewAuthHandler(users, cookies),
		MomentHandler:    handlers.NewMomentHandler(moments),
		MemoryHandler:    handlers.NewMemoryHandler(memories),
		AnalyticsHandler: handlers.NewAnalyticsHandler(analytics),
	}
}

// InitModules wires every feature module into the registry. Called once
// during startup.
func InitModules(r *Registry) {
	deps := buildDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(deps.AuthHandler, jwt))
	r.Add(modules.NewMomentModule(deps.MomentHandler, jwt))
	r.Add(modules.NewMemoryModule(deps.MemoryHandler, jwt))
	r.Add(modules.NewAnalyticsModule(deps.AnalyticsHandler, jwt))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

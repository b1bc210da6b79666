package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria/internal/container"
	handlers "github.com/memoria-app/memoria/internal/interface/http"
	"github.com/memoria-app/memoria/internal/interface/middleware"
	"github.com/memoria-app/memoria/pkg/helpers"
)

// AnalyticsModule wires the read-only analytics endpoint.
type AnalyticsModule struct {
	Handler *handlers.AnalyticsHandler
	JWT     *helpers.JWTManager
}

func NewAnalyticsModule(h *handlers.AnalyticsHandler, jwt *helpers.JWTManager) *AnalyticsModule {
	return &AnalyticsModule{Handler: h, JWT: jwt}
}

func (m *AnalyticsModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/analytics")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("", m.Handler.Summary)
	}
}

package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria/internal/container"
	handlers "github.com/memoria-app/memoria/internal/interface/http"
	"github.com/memoria-app/memoria/internal/interface/middleware"
	"github.com/memoria-app/memoria/pkg/helpers"
)

// MemoryModule wires the memory collection endpoints. All routes require auth.
type MemoryModule struct {
	Handler *handlers.MemoryHandler
	JWT     *helpers.JWTManager
}

func NewMemoryModule(h *handlers.MemoryHandler, jwt *helpers.JWTManager) *MemoryModule {
	return &MemoryModule{Handler: h, JWT: jwt}
}

func (m *MemoryModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/memories")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.POST("", m.Handler.Create)
		auth.POST("/with-moments", m.Handler.CreateWithMoments)
		auth.GET("", m.Handler.List)
		auth.POST("/sweep-orphans", m.Handler.SweepOrphans)
		auth.GET("/:id", m.Handler.Get)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.PATCH("/:id/add-moment", m.Handler.AddMoment)
		auth.PATCH("/:id/remove-moment", m.Handler.RemoveMoment)
	}
}

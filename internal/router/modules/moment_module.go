package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria/internal/container"
	handlers "github.com/memoria-app/memoria/internal/interface/http"
	"github.com/memoria-app/memoria/internal/interface/middleware"
	"github.com/memoria-app/memoria/pkg/helpers"
)

// MomentModule wires the journaling endpoints. All routes require auth.
type MomentModule struct {
	Handler *handlers.MomentHandler
	JWT     *helpers.JWTManager
}

func NewMomentModule(h *handlers.MomentHandler, jwt *helpers.JWTManager) *MomentModule {
	return &MomentModule{Handler: h, JWT: jwt}
}

func (m *MomentModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/moments")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/view", m.Handler.View)
	}
}

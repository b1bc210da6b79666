package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria/internal/application"
	"github.com/memoria-app/memoria/pkg/response"
)

type AnalyticsHandler struct {
	Service *application.AnalyticsService
}

func NewAnalyticsHandler(svc *application.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Service: svc}
}

// Summary returns the full analytics payload for the authenticated owner.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	s, err := h.Service.Summarize(c.Request.Context(), ownerID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, s, "analytics", nil)
}

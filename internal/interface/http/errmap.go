package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria/internal/application"
	repo "github.com/memoria-app/memoria/internal/domain/repository"
	"github.com/memoria-app/memoria/pkg/response"
)

// writeErr maps domain and application errors to HTTP statuses. Cross-owner
// access surfaces as a plain not-found, indistinguishable from a missing
// record, so ids cannot be probed.
func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, repo.ErrInvalidReference):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, repo.ErrValidation):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, repo.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "email already registered", nil)
	case errors.Is(err, repo.ErrTxAborted):
		response.Error[any](c, http.StatusInternalServerError, "transaction aborted", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func ownerID(c *gin.Context) string {
	return c.GetString("userID")
}

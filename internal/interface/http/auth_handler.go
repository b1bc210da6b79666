package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria/internal/application"
	"github.com/memoria-app/memoria/pkg/helpers"
	"github.com/memoria-app/memoria/pkg/response"
	"github.com/memoria-app/memoria/pkg/validation"
)

type AuthHandler struct {
	Service *application.UserService
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.UserService, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Service: svc, Cookies: cookies}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userPayload struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	u, err := h.Service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, userPayload{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}, "registered", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	user, pair, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"user":         user,
		"access_token": pair.AccessToken,
	}, "login success", nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie("refresh_token")
	if err != nil || token == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Service.Refresh(c.Request.Context(), token)
	if err != nil {
		writeErr(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{"access_token": pair.AccessToken}, "token refreshed", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Service.GetProfile(c.Request.Context(), ownerID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}, "profile", nil)
}

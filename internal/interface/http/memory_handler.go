package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria/internal/application"
	"github.com/memoria-app/memoria/internal/domain/entity"
	repo "github.com/memoria-app/memoria/internal/domain/repository"
	"github.com/memoria-app/memoria/pkg/response"
	"github.com/memoria-app/memoria/pkg/validation"
)

type MemoryHandler struct {
	Service *application.MemoryService
}

func NewMemoryHandler(svc *application.MemoryService) *MemoryHandler {
	return &MemoryHandler{Service: svc}
}

// Create accepts multipart/form-data: title, description and an optional
// cover image under "cover".
func (h *MemoryHandler) Create(c *gin.Context) {
	var cover *application.MediaUpload
	if fh, err := c.FormFile("cover"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "unreadable cover file", nil)
			return
		}
		defer func() { _ = f.Close() }()
		cover = &application.MediaUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		}
	}

	m, err := h.Service.Create(c.Request.Context(), ownerID(c), c.PostForm("title"), c.PostForm("description"), cover)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m, "memory created", nil)
}

type createWithMomentsRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"omitempty,max=2000"`
	MomentIDs   []string `json:"moment_ids"`
}

// CreateWithMoments seeds a memory with an initial membership list in one
// transaction. A single bad reference means nothing is written.
func (h *MemoryHandler) CreateWithMoments(c *gin.Context) {
	var req createWithMomentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	m, err := h.Service.CreateWithMoments(c.Request.Context(), ownerID(c), req.Title, req.Description, req.MomentIDs)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m, "memory created", nil)
}

func (h *MemoryHandler) List(c *gin.Context) {
	sort := repo.MemorySort{
		By:  c.DefaultQuery("sortBy", "created_at"),
		Asc: strings.EqualFold(c.DefaultQuery("order", "desc"), "asc"),
	}
	items, err := h.Service.List(c.Request.Context(), ownerID(c), sort)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "memories", gin.H{"count": len(items)})
}

type memoryDetail struct {
	*entity.Memory
	Moments []*entity.Moment `json:"moments"`
}

// Get returns the memory with its member moments resolved.
func (h *MemoryHandler) Get(c *gin.Context) {
	m, moments, err := h.Service.Get(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, memoryDetail{Memory: m, Moments: moments}, "memory", nil)
}

type memoryPatchRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

func (h *MemoryHandler) Update(c *gin.Context) {
	var req memoryPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	m, err := h.Service.Update(c.Request.Context(), ownerID(c), c.Param("id"), repo.MemoryPatch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, m, "memory updated", nil)
}

type momentRefRequest struct {
	MomentID string `json:"moment_id" binding:"required,uuid"`
}

func (h *MemoryHandler) AddMoment(c *gin.Context) {
	var req momentRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	m, err := h.Service.AddMoment(c.Request.Context(), ownerID(c), c.Param("id"), req.MomentID)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, m, "moment added", nil)
}

func (h *MemoryHandler) RemoveMoment(c *gin.Context) {
	var req momentRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	m, err := h.Service.RemoveMoment(c.Request.Context(), ownerID(c), c.Param("id"), req.MomentID)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, m, "moment removed", nil)
}

func (h *MemoryHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "memory deleted", nil)
}

// SweepOrphans prunes membership entries whose moment no longer exists.
func (h *MemoryHandler) SweepOrphans(c *gin.Context) {
	removed, err := h.Service.SweepOrphans(c.Request.Context(), ownerID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": removed}, "sweep complete", nil)
}

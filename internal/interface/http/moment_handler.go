package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria/internal/application"
	repo "github.com/memoria-app/memoria/internal/domain/repository"
	"github.com/memoria-app/memoria/pkg/response"
	"github.com/memoria-app/memoria/pkg/validation"
)

const maxMediaFiles = 5

type MomentHandler struct {
	Service *application.MomentService
}

func NewMomentHandler(svc *application.MomentService) *MomentHandler {
	return &MomentHandler{Service: svc}
}

// Create accepts multipart/form-data: text, mood, tags (repeated field)
// and up to five files under "media".
func (h *MomentHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}

	in := application.CreateMomentInput{
		Text: c.PostForm("text"),
		Mood: c.PostForm("mood"),
		Tags: formTags(form.Value["tags"]),
	}

	files := form.File["media"]
	if len(files) > maxMediaFiles {
		response.Error[any](c, http.StatusBadRequest, "too many media files (max 5)", nil)
		return
	}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "unreadable media file", nil)
			return
		}
		defer func() { _ = f.Close() }()
		in.Media = append(in.Media, application.MediaUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	m, err := h.Service.Create(c.Request.Context(), ownerID(c), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m, "moment created", nil)
}

func (h *MomentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	f := repo.MomentFilter{
		Mood:  c.Query("mood"),
		Tag:   c.Query("tag"),
		Query: c.Query("q"),
		Page:  page,
		Limit: limit,
	}
	items, total, err := h.Service.List(c.Request.Context(), ownerID(c), f)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "moments", gin.H{
		"page":  f.Page,
		"limit": f.Limit,
		"total": total,
	})
}

func (h *MomentHandler) Get(c *gin.Context) {
	m, err := h.Service.Get(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, m, "moment", nil)
}

type momentPatchRequest struct {
	Text *string   `json:"text" binding:"omitempty,max=10000"`
	Mood *string   `json:"mood" binding:"omitempty,max=50"`
	Tags *[]string `json:"tags"`
}

// Update is a merge patch: absent fields stay untouched.
func (h *MomentHandler) Update(c *gin.Context) {
	var req momentPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	m, err := h.Service.Update(c.Request.Context(), ownerID(c), c.Param("id"), repo.MomentPatch{
		Text: req.Text,
		Mood: req.Mood,
		Tags: req.Tags,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, m, "moment updated", nil)
}

func (h *MomentHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "moment deleted", nil)
}

// View records one view and returns the updated moment.
func (h *MomentHandler) View(c *gin.Context) {
	m, err := h.Service.IncrementViews(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, m, "view recorded", nil)
}

func (h *MomentHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Service.Search(c.Request.Context(), ownerID(c), q, size)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

// formTags flattens repeated tag fields, also splitting comma-separated
// values so both tags=a&tags=b and tags=a,b work.
func formTags(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, t := range strings.Split(v, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

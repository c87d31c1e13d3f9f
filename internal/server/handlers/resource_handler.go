package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/controller"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/validation"
)

// Patch is implemented by every partial update payload.
type Patch interface {
	IsEmpty() bool
}

// ResourceHandler exposes the CRUD routes of one resource.
type ResourceHandler[T controller.Record, C any, P Patch] struct {
	ctrl   *controller.Controller[T, C, P]
	logger *zap.Logger
}

// NewResourceHandler constructs the HTTP adapter for a controller.
func NewResourceHandler[T controller.Record, C any, P Patch](ctrl *controller.Controller[T, C, P], logger *zap.Logger) *ResourceHandler[T, C, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceHandler[T, C, P]{ctrl: ctrl, logger: logger}
}

// Register mounts the routes on the group.
func (h *ResourceHandler[T, C, P]) Register(group *gin.RouterGroup) {
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// Create validates the body and inserts the record.
func (h *ResourceHandler[T, C, P]) Create(c *gin.Context) {
	var in C
	if err := c.ShouldBindJSON(&in); err != nil {
		h.invalid(c, validation.Translate(err))
		return
	}

	resp, err := h.ctrl.Create(c.Request.Context(), in)
	render(c, resp, err)
}

// List returns one page of active records.
func (h *ResourceHandler[T, C, P]) List(c *gin.Context) {
	req, verr := pageRequest(c)
	if verr != nil {
		h.invalid(c, verr)
		return
	}

	resp, err := h.ctrl.List(c.Request.Context(), req)
	render(c, resp, err)
}

// Get fetches a record by id or natural key.
func (h *ResourceHandler[T, C, P]) Get(c *gin.Context) {
	resp, err := h.ctrl.Get(c.Request.Context(), models.ParseLookup(c.Param("id")))
	render(c, resp, err)
}

// Update applies a partial update.
func (h *ResourceHandler[T, C, P]) Update(c *gin.Context) {
	id, verr := pathID(c)
	if verr != nil {
		h.invalid(c, verr)
		return
	}

	var patch P
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.invalid(c, validation.Translate(err))
		return
	}
	if patch.IsEmpty() {
		h.invalid(c, validation.EmptyPatch())
		return
	}

	resp, err := h.ctrl.Update(c.Request.Context(), id, patch)
	render(c, resp, err)
}

// Delete soft deletes a record.
func (h *ResourceHandler[T, C, P]) Delete(c *gin.Context) {
	id, verr := pathID(c)
	if verr != nil {
		h.invalid(c, verr)
		return
	}

	resp, err := h.ctrl.Delete(c.Request.Context(), id)
	render(c, resp, err)
}

func (h *ResourceHandler[T, C, P]) invalid(c *gin.Context, verr *validation.ValidationError) {
	h.logger.Warn("invalid request",
		zap.String("resource", h.ctrl.Resource()),
		zap.String("field", verr.Field),
		zap.String("reason", verr.Message))
	badRequest(c, verr)
}

// errorBody is the envelope of a rejected request.
type errorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Field   string `json:"field,omitempty"`
}

func badRequest(c *gin.Context, verr *validation.ValidationError) {
	c.JSON(http.StatusBadRequest, errorBody{Message: verr.Message, Status: http.StatusBadRequest, Field: verr.Field})
}

// render writes a controller response. Infrastructure errors are attached to
// the context for the error middleware.
func render(c *gin.Context, resp controller.Response, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(resp.Status, resp.Body)
}

func pathID(c *gin.Context) (int64, *validation.ValidationError) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, &validation.ValidationError{Field: "id", Message: `"id" must be a positive integer`}
	}
	return id, nil
}

// pageRequest reads page and limit. Absent or non-numeric values fall back to
// the defaults; numbers below one, a limit above MaxLimit and a page whose
// offset does not fit in an int are rejected.
func pageRequest(c *gin.Context) (models.PageRequest, *validation.ValidationError) {
	req := models.PageRequest{Page: models.DefaultPage, Limit: models.DefaultLimit}

	if n, err := strconv.Atoi(c.Query("page")); err == nil {
		if n < 1 {
			return req, &validation.ValidationError{Field: "page", Message: `"page" must be greater than or equal to 1`}
		}
		req.Page = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil {
		if n < 1 {
			return req, &validation.ValidationError{Field: "limit", Message: `"limit" must be greater than or equal to 1`}
		}
		if n > models.MaxLimit {
			return req, &validation.ValidationError{Field: "limit", Message: fmt.Sprintf(`"limit" must be less than or equal to %d`, models.MaxLimit)}
		}
		req.Limit = n
	}
	if req.Page-1 > math.MaxInt/req.Limit {
		return req, &validation.ValidationError{Field: "page", Message: `"page" is out of range`}
	}
	return req, nil
}

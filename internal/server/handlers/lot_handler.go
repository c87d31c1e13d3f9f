package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/controller"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/validation"
)

// LotHandler adds the member routes to the lot CRUD routes.
type LotHandler struct {
	*ResourceHandler[models.Lot, models.LotInput, models.LotPatch]
	lots *controller.LotController
}

func NewLotHandler(ctrl *controller.LotController, logger *zap.Logger) *LotHandler {
	return &LotHandler{
		ResourceHandler: NewResourceHandler(ctrl.Controller, logger),
		lots:            ctrl,
	}
}

// Register mounts the member routes ahead of the generic ones.
func (h *LotHandler) Register(group *gin.RouterGroup) {
	group.GET("/cattle", h.Members)
	group.POST("/cattle", h.Members)
	h.ResourceHandler.Register(group)
}

type membersRequest struct {
	ID int64 `json:"id" binding:"required,gte=1"`
}

// Members lists the active cattle of a lot. The id comes from the query
// string on GET and from the body on POST.
func (h *LotHandler) Members(c *gin.Context) {
	var req membersRequest
	if c.Request.Method == http.MethodGet {
		id, err := strconv.ParseInt(c.Query("id"), 10, 64)
		if err != nil || id < 1 {
			h.invalid(c, &validation.ValidationError{Field: "id", Message: `"id" must be a positive integer`})
			return
		}
		req.ID = id
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, validation.Translate(err))
		return
	}

	resp, err := h.lots.Members(c.Request.Context(), req.ID)
	render(c, resp, err)
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mlazarev/tracknest/internal/middleware"
	"github.com/mlazarev/tracknest/internal/services"
	"github.com/mlazarev/tracknest/pkg/response"
	"gorm.io/gorm"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{
		activityService: services.NewActivityService(db),
	}
}

// List returns the caller's recorded activity
// GET /api/activity
func (h *ActivityHandler) List(c *gin.Context) {
	var req services.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.activityService.List(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, resp)
}

package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mlazarev/tracknest/internal/middleware"
	"github.com/mlazarev/tracknest/internal/services"
	"github.com/mlazarev/tracknest/pkg/response"
	"gorm.io/gorm"
)

type SearchHandler struct {
	searchService *services.SearchService
}

func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{
		searchService: services.NewSearchService(db),
	}
}

// Search runs a full-text query over the caller's projects and issues
// GET /api/search?q=...&limit=...
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.searchService.Search(c.Request.Context(), middleware.GetUserID(c), query, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, resp)
}

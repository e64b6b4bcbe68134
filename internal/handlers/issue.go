package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mlazarev/tracknest/internal/middleware"
	"github.com/mlazarev/tracknest/internal/services"
	"github.com/mlazarev/tracknest/pkg/cache"
	"github.com/mlazarev/tracknest/pkg/response"
	"gorm.io/gorm"
)

type IssueHandler struct {
	issueService *services.IssueService
}

func NewIssueHandler(db *gorm.DB, c *cache.Cache) *IssueHandler {
	return &IssueHandler{
		issueService: services.NewIssueService(db, c),
	}
}

// issuePath extracts the project and issue IDs from the route.
func issuePath(c *gin.Context) (projectID, issueID uint, ok bool) {
	pid, err := strconv.ParseUint(c.Param("projectId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return 0, 0, false
	}
	iid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid issue id")
		return 0, 0, false
	}
	return uint(pid), uint(iid), true
}

// List returns a project's issues, paginated
// GET /api/projects/:projectId/issues
func (h *IssueHandler) List(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req services.IssueListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.issueService.List(c.Request.Context(), middleware.GetUserID(c), uint(projectID), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns one issue
// GET /api/projects/:projectId/issues/:id
func (h *IssueHandler) GetByID(c *gin.Context) {
	projectID, issueID, ok := issuePath(c)
	if !ok {
		return
	}

	issue, err := h.issueService.Get(c.Request.Context(), middleware.GetUserID(c), projectID, issueID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, issue)
}

// Create creates an issue inside a project
// POST /api/projects/:projectId/issues
func (h *IssueHandler) Create(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req services.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	issue, err := h.issueService.Create(c.Request.Context(), middleware.GetUserID(c), uint(projectID), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, issue)
}

// Update applies a partial update to an issue
// PATCH /api/projects/:projectId/issues/:id
func (h *IssueHandler) Update(c *gin.Context) {
	projectID, issueID, ok := issuePath(c)
	if !ok {
		return
	}

	var req services.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	issue, err := h.issueService.Update(c.Request.Context(), middleware.GetUserID(c), projectID, issueID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, issue)
}

// Delete deletes an issue
// DELETE /api/projects/:projectId/issues/:id
func (h *IssueHandler) Delete(c *gin.Context) {
	projectID, issueID, ok := issuePath(c)
	if !ok {
		return
	}

	if err := h.issueService.Delete(c.Request.Context(), middleware.GetUserID(c), projectID, issueID); err != nil {
		writeServiceError(c, err)
		return
	}

	response.NoContent(c)
}

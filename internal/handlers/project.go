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

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB, c *cache.Cache) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db, c),
	}
}

// List returns the caller's projects, paginated
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projectService.List(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns one of the caller's projects
// GET /api/projects/:projectId
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("projectId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), middleware.GetUserID(c), uint(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, project)
}

// Create creates a new project
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, project)
}

// Update applies a partial update to a project
// PATCH /api/projects/:projectId
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("projectId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.GetUserID(c), uint(id), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, project)
}

// Delete deletes a project and its issues
// DELETE /api/projects/:projectId
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("projectId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), middleware.GetUserID(c), uint(id)); err != nil {
		writeServiceError(c, err)
		return
	}

	response.NoContent(c)
}

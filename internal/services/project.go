package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mlazarev/tracknest/internal/models"
	"github.com/mlazarev/tracknest/pkg/cache"
	"gorm.io/gorm"
)

type ProjectService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewProjectService(db *gorm.DB, c *cache.Cache) *ProjectService {
	return &ProjectService{db: db, cache: c}
}

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Key  string `json:"key" binding:"required,alphanum,max=10"`
}

// UpdateProjectRequest uses pointers so field presence is explicit: a
// nil field was not supplied and stays untouched.
type UpdateProjectRequest struct {
	Name *string `json:"name" binding:"omitempty,max=200"`
	Key  *string `json:"key" binding:"omitempty,alphanum,max=10"`
}

type ProjectListRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

// Create inserts a project owned by userID. A uniqueness collision
// surfaces as ConflictError naming key or name.
func (s *ProjectService) Create(ctx context.Context, userID uint, req *CreateProjectRequest) (*models.Project, error) {
	project := &models.Project{
		Key:      req.Key,
		Name:     req.Name,
		AuthorID: userID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return translateUnique(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx, userID)
	return project, nil
}

// Get returns the project only when it is owned by userID.
func (s *ProjectService) Get(ctx context.Context, userID, projectID uint) (*models.Project, error) {
	var project models.Project
	err := scopeProject(s.db.WithContext(ctx), userID, projectID).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update applies only the supplied fields. Zero matched rows means
// ErrNotFound even when the project exists under a different owner; an
// empty patch is a no-op that returns the current row.
func (s *ProjectService) Update(ctx context.Context, userID, projectID uint, req *UpdateProjectRequest) (*models.Project, error) {
	updates := map[string]interface{}{}
	if req.Key != nil {
		updates["key"] = *req.Key
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}

	if len(updates) == 0 {
		return s.Get(ctx, userID, projectID)
	}

	var project models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := scopeProject(tx.Model(&models.Project{}), userID, projectID).Updates(updates)
		if result.Error != nil {
			return translateUnique(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return scopeProject(tx, userID, projectID).First(&project).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx, userID)
	return &project, nil
}

// Delete removes the scoped project; issues go with it via the store's
// FK cascade.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := scopeProject(tx, userID, projectID).Delete(&models.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateListings(ctx, userID)
	s.cache.Invalidate(ctx, fmt.Sprintf("issues:u%d:p%d:*", userID, projectID))
	return nil
}

// List returns the user's projects, paginated, through the cache-aside
// helper. Mutations invalidate the owner's listing pattern.
func (s *ProjectService) List(ctx context.Context, userID uint, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	key := fmt.Sprintf("projects:u%d:page%d:size%d", userID, req.Page, req.PageSize)

	var resp ProjectListResponse
	err := s.cache.GetOrCompute(ctx, key, &resp, func() (interface{}, error) {
		return s.listFromStore(ctx, userID, req)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *ProjectService) listFromStore(ctx context.Context, userID uint, req *ProjectListRequest) (*ProjectListResponse, error) {
	var projects []models.Project
	var total int64

	query := scopeProjects(s.db.WithContext(ctx).Model(&models.Project{}), userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

func (s *ProjectService) invalidateListings(ctx context.Context, userID uint) {
	s.cache.Invalidate(ctx, fmt.Sprintf("projects:u%d:*", userID))
}

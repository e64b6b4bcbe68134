package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mlazarev/tracknest/internal/models"
	"github.com/mlazarev/tracknest/pkg/cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IssueService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewIssueService(db *gorm.DB, c *cache.Cache) *IssueService {
	return &IssueService{db: db, cache: c}
}

type CreateIssueRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=5000"`
	Type        string `json:"type" binding:"required,oneof=bug feature"`
	Priority    string `json:"priority" binding:"required,oneof=lowest low medium high highest"`
	Status      string `json:"status" binding:"required,oneof=to_do in_progress done"`
}

// UpdateIssueRequest uses pointers so field presence is explicit.
type UpdateIssueRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Type        *string `json:"type" binding:"omitempty,oneof=bug feature"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=lowest low medium high highest"`
	Status      *string `json:"status" binding:"omitempty,oneof=to_do in_progress done"`
}

type IssueListRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type IssueListResponse struct {
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Items    []models.Issue `json:"items"`
}

// Create verifies the parent project under the caller's ownership, then
// inserts the issue with the next per-project key. A missing or foreign
// project fails the precondition, never NotFound or Conflict.
func (s *IssueService) Create(ctx context.Context, userID, projectID uint, req *CreateIssueRequest) (*models.Issue, error) {
	if err := validateIssueEnums(req.Type, req.Priority, req.Status); err != nil {
		return nil, err
	}

	issue := &models.Issue{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Priority:    req.Priority,
		Status:      req.Status,
		AuthorID:    userID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := scopeProject(tx.Model(&models.Project{}), userID, projectID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrProjectPrecondition
		}

		next, err := nextIssueKey(tx, projectID)
		if err != nil {
			return err
		}
		issue.Key = next

		if err := tx.Create(issue).Error; err != nil {
			return translateUnique(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx, userID, projectID)
	return issue, nil
}

// Get returns the issue only when the (user, project, issue) triple
// matches exactly.
func (s *IssueService) Get(ctx context.Context, userID, projectID, issueID uint) (*models.Issue, error) {
	var issue models.Issue
	err := scopeIssue(s.db.WithContext(ctx), userID, projectID, issueID).First(&issue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// Update applies only the supplied fields under the 3-way scope. The
// store refreshes updated_at on any successful mutation.
func (s *IssueService) Update(ctx context.Context, userID, projectID, issueID uint, req *UpdateIssueRequest) (*models.Issue, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Type != nil {
		if !models.ValidIssueType(*req.Type) {
			return nil, &ValidationError{Field: "type", Reason: "must be one of bug, feature"}
		}
		updates["type"] = *req.Type
	}
	if req.Priority != nil {
		if !models.ValidIssuePriority(*req.Priority) {
			return nil, &ValidationError{Field: "priority", Reason: "must be one of lowest, low, medium, high, highest"}
		}
		updates["priority"] = *req.Priority
	}
	if req.Status != nil {
		if !models.ValidIssueStatus(*req.Status) {
			return nil, &ValidationError{Field: "status", Reason: "must be one of to_do, in_progress, done"}
		}
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		return s.Get(ctx, userID, projectID, issueID)
	}

	var issue models.Issue
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := scopeIssue(tx.Model(&models.Issue{}), userID, projectID, issueID).Updates(updates)
		if result.Error != nil {
			return translateUnique(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return scopeIssue(tx, userID, projectID, issueID).First(&issue).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx, userID, projectID)
	return &issue, nil
}

// Delete removes the scoped issue.
func (s *IssueService) Delete(ctx context.Context, userID, projectID, issueID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := scopeIssue(tx, userID, projectID, issueID).Delete(&models.Issue{})
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

	s.invalidateListings(ctx, userID, projectID)
	return nil
}

// List returns the project's issues for the owner, paginated and cached.
func (s *IssueService) List(ctx context.Context, userID, projectID uint, req *IssueListRequest) (*IssueListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	key := fmt.Sprintf("issues:u%d:p%d:page%d:size%d", userID, projectID, req.Page, req.PageSize)

	var resp IssueListResponse
	err := s.cache.GetOrCompute(ctx, key, &resp, func() (interface{}, error) {
		return s.listFromStore(ctx, userID, projectID, req)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *IssueService) listFromStore(ctx context.Context, userID, projectID uint, req *IssueListRequest) (*IssueListResponse, error) {
	var issues []models.Issue
	var total int64

	query := scopeIssues(s.db.WithContext(ctx).Model(&models.Issue{}), userID, projectID)
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.PageSize
	err := query.Offset(offset).Limit(req.PageSize).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Find(&issues).Error
	if err != nil {
		return nil, err
	}

	return &IssueListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    issues,
	}, nil
}

func (s *IssueService) invalidateListings(ctx context.Context, userID, projectID uint) {
	s.cache.Invalidate(ctx, fmt.Sprintf("issues:u%d:p%d:*", userID, projectID))
}

// nextIssueKey returns the next sequence number within a project.
// "key" is a reserved word on some backends, so the ordering goes
// through a quoted clause column.
func nextIssueKey(tx *gorm.DB, projectID uint) (int, error) {
	var last models.Issue
	err := tx.Where("project_id = ?", projectID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}, Desc: true}).
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Key + 1, nil
}

func validateIssueEnums(issueType, priority, status string) error {
	if !models.ValidIssueType(issueType) {
		return &ValidationError{Field: "type", Reason: "must be one of bug, feature"}
	}
	if !models.ValidIssuePriority(priority) {
		return &ValidationError{Field: "priority", Reason: "must be one of lowest, low, medium, high, highest"}
	}
	if !models.ValidIssueStatus(status) {
		return &ValidationError{Field: "status", Reason: "must be one of to_do, in_progress, done"}
	}
	return nil
}

package services

import (
	"context"
	"time"

	"github.com/mlazarev/tracknest/internal/models"
	"github.com/mlazarev/tracknest/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ActivityService persists and queries the mutation activity log.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record writes one activity entry. Called by the sync queue processor
// and by the async worker.
func (s *ActivityService) Record(ctx context.Context, event *ActivityEvent) error {
	entry := &models.ActivityLog{
		RequestID: event.RequestID,
		UserID:    event.UserID,
		Module:    event.Module,
		Action:    event.Action,
		Message:   event.Message,
		IP:        event.IP,
		UserAgent: event.UserAgent,
		Status:    event.Status,
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

type ActivityListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Module   string `form:"module"`
	Action   string `form:"action"`
}

type ActivityListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []models.ActivityLog `json:"items"`
}

// List returns the caller's own activity, newest first.
func (s *ActivityService) List(ctx context.Context, userID uint, req *ActivityListRequest) (*ActivityListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var entries []models.ActivityLog
	var total int64

	query := s.db.WithContext(ctx).Model(&models.ActivityLog{}).Where("user_id = ?", userID)
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}
	if req.Action != "" {
		query = query.Where("action = ?", req.Action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}

	return &ActivityListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    entries,
	}, nil
}

// Cleanup deletes entries older than retentionDays and returns the
// number of deleted rows.
func (s *ActivityService) Cleanup(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// StartRetentionScheduler runs Cleanup once at startup and then daily.
// The returned cron can be stopped at shutdown.
func StartRetentionScheduler(db *gorm.DB, retentionDays int) *cron.Cron {
	service := NewActivityService(db)

	runCleanup := func() {
		deleted, err := service.Cleanup(retentionDays)
		if err != nil {
			logger.Errorf("[Activity] cleanup failed: %v", err)
			return
		}
		if deleted > 0 {
			logger.Infof("[Activity] cleaned up %d entries older than %d days", deleted, retentionDays)
		}
	}

	runCleanup()

	c := cron.New()
	if _, err := c.AddFunc("@daily", runCleanup); err != nil {
		logger.Errorf("[Activity] failed to schedule cleanup: %v", err)
		return c
	}
	c.Start()
	return c
}

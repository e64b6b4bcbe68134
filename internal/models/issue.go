package models

import "time"

// Issue type values.
const (
	IssueTypeBug     = "bug"
	IssueTypeFeature = "feature"
)

// Issue priority values.
const (
	IssuePriorityLowest  = "lowest"
	IssuePriorityLow     = "low"
	IssuePriorityMedium  = "medium"
	IssuePriorityHigh    = "high"
	IssuePriorityHighest = "highest"
)

// Issue status values.
const (
	IssueStatusToDo       = "to_do"
	IssueStatusInProgress = "in_progress"
	IssueStatusDone       = "done"
)

// Issue is a work item inside a project. The enum columns carry CHECK
// constraints so out-of-set values are rejected at the store even if a
// caller bypasses schema validation. Key is a per-project sequence
// number; the composite unique index makes the store the arbiter when
// two inserts race to the same number.
type Issue struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"not null;uniqueIndex:uq_issues_project_key" json:"project_id"`
	Key         int       `gorm:"not null;default:1;uniqueIndex:uq_issues_project_key" json:"key"`
	Title       string    `gorm:"uniqueIndex:uq_issues_title;size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"size:20;not null;check:chk_issues_type,type IN ('bug','feature')" json:"type"`
	Priority    string    `gorm:"size:20;not null;check:chk_issues_priority,priority IN ('lowest','low','medium','high','highest')" json:"priority"`
	Status      string    `gorm:"size:20;not null;check:chk_issues_status,status IN ('to_do','in_progress','done')" json:"status"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Issue) TableName() string { return "issues" }

// ValidIssueType reports whether s is one of the legal issue types.
func ValidIssueType(s string) bool {
	return s == IssueTypeBug || s == IssueTypeFeature
}

// ValidIssuePriority reports whether s is one of the legal priorities.
func ValidIssuePriority(s string) bool {
	switch s {
	case IssuePriorityLowest, IssuePriorityLow, IssuePriorityMedium,
		IssuePriorityHigh, IssuePriorityHighest:
		return true
	}
	return false
}

// ValidIssueStatus reports whether s is one of the legal statuses.
func ValidIssueStatus(s string) bool {
	switch s {
	case IssueStatusToDo, IssueStatusInProgress, IssueStatusDone:
		return true
	}
	return false
}

package models

import "time"

// ActivityLog records a write operation performed through the API.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID string    `gorm:"size:36;index" json:"request_id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Module    string    `gorm:"size:100;index" json:"module"`
	Action    string    `gorm:"size:50;index" json:"action"`
	Message   string    `gorm:"type:text" json:"message"`
	IP        string    `gorm:"size:50" json:"ip"`
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	Status    int       `json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

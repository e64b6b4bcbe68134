package models

import "time"

// User represents a registered account. Rows are deleted for real (no
// soft delete) so the FK cascade removes the user's projects and issues.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex:uq_users_email;size:255;not null" json:"email"`
	Username       string    `gorm:"uniqueIndex:uq_users_username;size:100;not null" json:"username"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	IsVerified     bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Projects []Project `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Issues   []Issue   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }

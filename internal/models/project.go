package models

import "time"

// Project groups issues under a single owner.
//
// Key is declared before Name so its unique index is created first:
// when an insert collides on both columns, the store reports the key
// constraint, which is the more specific of the two.
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex:uq_projects_key;size:10;not null" json:"key"`
	Name      string    `gorm:"uniqueIndex:uq_projects_name;size:200;not null" json:"name"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Issues []Issue `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Project) TableName() string { return "projects" }

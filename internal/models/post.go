package models

import (
	"time"
)

type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	GroupID *uint  `gorm:"index" json:"group_id"` // Nullable, group tag is optional
	Group   *Group `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"group"`
	Text    string `gorm:"type:text;not null" json:"text"`
	Image   string `json:"image"` // Stored media path, optional
	// CreatedAt is set once at insert and never touched afterwards
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Filled at query time, not a DB column
	CommentCount int `gorm:"-" json:"comment_count"`
}

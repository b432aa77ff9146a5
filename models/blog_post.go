package models

import (
	"time"
)

type BlogPost struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string     `gorm:"not null" json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `gorm:"type:text" json:"content,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

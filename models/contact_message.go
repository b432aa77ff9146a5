package models

import (
	"time"
)

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Company   string    `json:"company,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Emailed   bool      `gorm:"default:false" json:"emailed"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import (
	"time"
)

// BlacklistedToken is a revoked admin bearer token, stored by fingerprint
// until it would have expired anyway.
type BlacklistedToken struct {
	ID          uint      `gorm:"primaryKey"`
	Fingerprint string    `gorm:"uniqueIndex;not null"`
	ExpiresAt   time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nusadigital/agency-site/models"
)

type TokenBlacklist interface {
	Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, fingerprint string) (bool, error)
}

type GormTokenBlacklist struct {
	db *gorm.DB
}

func NewTokenBlacklist(db *gorm.DB) *GormTokenBlacklist {
	return &GormTokenBlacklist{db: db}
}

// Revoke is idempotent. Expired rows are pruned on the way in.
func (r *GormTokenBlacklist) Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("expires_at < ?", time.Now()).Delete(&models.BlacklistedToken{}).Error; err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.BlacklistedToken{Fingerprint: fingerprint, ExpiresAt: expiresAt}).Error
}

func (r *GormTokenBlacklist) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BlacklistedToken{}).
		Where("fingerprint = ? AND expires_at > ?", fingerprint, time.Now()).
		Count(&count).Error
	return count > 0, err
}

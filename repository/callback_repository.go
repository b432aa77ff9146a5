package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nusadigital/agency-site/models"
)

type CallbackRepository interface {
	Record(ctx context.Context, cb *models.PaymentCallback) error
}

type GormCallbackRepository struct {
	db *gorm.DB
}

func NewCallbackRepository(db *gorm.DB) *GormCallbackRepository {
	return &GormCallbackRepository{db: db}
}

func (r *GormCallbackRepository) Record(ctx context.Context, cb *models.PaymentCallback) error {
	return r.db.WithContext(ctx).Create(cb).Error
}

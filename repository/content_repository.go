package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nusadigital/agency-site/models"
)

var ErrPostNotFound = errors.New("post not found")

type BlogRepository interface {
	ListPublished(ctx context.Context, limit, offset int) ([]models.BlogPost, int64, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
}

type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	MarkEmailed(ctx context.Context, id uint) error
}

type GormBlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *GormBlogRepository {
	return &GormBlogRepository{db: db}
}

// ListPublished returns published posts newest first, without bodies. A
// limit of zero returns every post.
func (r *GormBlogRepository) ListPublished(ctx context.Context, limit, offset int) ([]models.BlogPost, int64, error) {
	published := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("published = ?", true)
	}

	var total int64
	if err := published().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.BlogPost
	query := published().Omit("content").Order("published_at DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *GormBlogRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).Where("slug = ? AND published = ?", slug, true).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

type GormContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *GormContactRepository) MarkEmailed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Update("emailed", true).Error
}

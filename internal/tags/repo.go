package tags

import (
	"context"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tags repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByTitles(ctx context.Context, titles []string) ([]models.Tag, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Where("title IN ?", titles).
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *repository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *repository) List(ctx context.Context, query string, limit int) ([]models.Tag, error) {
	q := r.db.WithContext(ctx).Model(&models.Tag{})
	if query != "" {
		q = q.Where("title LIKE lower(?)", query+"%")
	}
	var tags []models.Tag
	err := q.Order("title ASC").Limit(limit).Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

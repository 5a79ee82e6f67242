package tags

import (
	"context"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for tags.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByTitles(ctx context.Context, titles []string) ([]models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	List(ctx context.Context, query string, limit int) ([]models.Tag, error)
}

package reports

import (
	"context"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for reports. Rows are append
// only; there are no update or delete paths.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, report *models.Report) (*models.Report, error)
	List(ctx context.Context, params pagination.Params) ([]models.Report, string, error)
}

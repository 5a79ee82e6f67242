package orders

import (
	"context"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for commission orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDWithViewBump(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, orderID uuid.UUID) error
	ReplaceTags(ctx context.Context, order *models.Order, tags []models.Tag) error
	ReplaceFiles(ctx context.Context, order *models.Order, files []models.File) error
	ListAvailable(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error)
	ListForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error)
	ListAcceptedForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params) (*OrderList, error)
	TopOpenByViews(ctx context.Context, limit int) ([]models.Order, error)
}

package masterpieces

import (
	"context"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for masterpieces and the order
// column the rating transaction touches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, piece *models.Masterpiece) (*models.Masterpiece, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Masterpiece, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Masterpiece, error)
	Update(ctx context.Context, pieceID uuid.UUID, updates map[string]any) error
	ReplaceTags(ctx context.Context, piece *models.Masterpiece, tags []models.Tag) error
	ReplaceFiles(ctx context.Context, piece *models.Masterpiece, files []models.File) error
	FindOrderWithAcceptedOffer(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	ListGallery(ctx context.Context, params pagination.Params, filters Filters) (*MasterpieceList, error)
	ListForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params, filters Filters) (*MasterpieceList, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*MasterpieceList, error)
}

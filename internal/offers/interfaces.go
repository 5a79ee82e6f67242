package offers

import (
	"context"
	"time"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for offers and the order columns
// the acceptance cascade touches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	FindByOrderAndArtist(ctx context.Context, orderID, artistID uuid.UUID) (*models.Offer, error)
	Update(ctx context.Context, offerID uuid.UUID, updates map[string]any) error
	DeclineOpenSiblings(ctx context.Context, orderID, keptOfferID uuid.UUID, at time.Time) (int64, error)
	LockOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	ListForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params, filters Filters) (*OfferList, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*OfferList, error)
	ListOpenForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Offer, error)
}

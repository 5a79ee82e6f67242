package offers

import (
	"context"
	"time"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an offers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Artist").
		Where("id = ?", id).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) FindByOrderAndArtist(ctx context.Context, orderID, artistID uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND artist_id = ?", orderID, artistID).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) Update(ctx context.Context, offerID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ?", offerID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeclineOpenSiblings stamps declined_at on every still-open offer for the
// order except the one being accepted. Runs inside the acceptance transaction.
func (r *repository) DeclineOpenSiblings(ctx context.Context, orderID, keptOfferID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("order_id = ? AND id <> ? AND accepted_at IS NULL AND declined_at IS NULL", orderID, keptOfferID).
		Updates(map[string]any{
			"declined_at":       at,
			"changes_requested": false,
		})
	return result.RowsAffected, result.Error
}

// LockOrder reads the order row FOR UPDATE so concurrent accepts serialize.
func (r *repository) LockOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListForArtist returns the artist's open and declined offers. Accepted
// offers surface through the accepted-orders view instead.
func (r *repository) ListForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params, filters Filters) (*OfferList, error) {
	query := r.baseList(ctx).Where("offers.artist_id = ? AND offers.accepted_at IS NULL", artistID)
	return r.runList(query, params, filters)
}

func (r *repository) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*OfferList, error) {
	query := r.baseList(ctx).
		Joins("JOIN orders ON orders.id = offers.order_id").
		Where("orders.created_by_id = ?", customerID)
	return r.runList(query, params, filters)
}

func (r *repository) ListOpenForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Where("order_id = ? AND accepted_at IS NULL AND declined_at IS NULL", orderID).
		Order("created_at ASC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repository) baseList(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Preload("Order").
		Preload("Artist")
}

func (r *repository) runList(query *gorm.DB, params pagination.Params, filters Filters) (*OfferList, error) {
	if filters.ArtistEmail != "" {
		query = query.Where(
			"offers.artist_id IN (SELECT users.id FROM users WHERE users.email ILIKE ?)",
			"%"+filters.ArtistEmail+"%",
		)
	}
	if filters.OrderQuery != "" {
		query = query.Where(
			"offers.order_id IN (SELECT orders.id FROM orders WHERE orders.title ILIKE ?)",
			"%"+filters.OrderQuery+"%",
		)
	}
	if filters.Tag != "" {
		query = query.Where(
			"offers.order_id IN (SELECT ot.order_id FROM order_tags ot JOIN tags t ON t.id = ot.tag_id WHERE t.title = lower(?))",
			filters.Tag,
		)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(offers.created_at, offers.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Offer
	err = query.
		Order("offers.created_at DESC, offers.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	page, hasMore := pagination.Window(rows, params.Limit)
	list := &OfferList{Offers: toSummaries(page)}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func toSummaries(rows []models.Offer) []OfferSummary {
	summaries := make([]OfferSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, toSummary(&rows[i]))
	}
	return summaries
}

func toSummary(offer *models.Offer) OfferSummary {
	summary := OfferSummary{
		ID:               offer.ID,
		OrderID:          offer.OrderID,
		Fee:              offer.Fee,
		State:            StateOf(offer.AcceptedAt, offer.DeclinedAt),
		ChangesRequested: offer.ChangesRequested,
		CreatedAt:        offer.CreatedAt,
	}
	if offer.Order != nil {
		summary.OrderTitle = offer.Order.Title
	}
	if offer.Artist != nil {
		summary.Artist = ArtistSummary{
			ID:        offer.Artist.ID,
			FirstName: offer.Artist.FirstName,
			LastName:  offer.Artist.LastName,
		}
	}
	return summary
}

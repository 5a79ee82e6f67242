package orders

import (
	"context"
	"fmt"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Tags").
		Preload("Files").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDWithViewBump increments the views counter in the same statement
// batch as the read so concurrent fetches never lose a count.
func (r *repository) FindByIDWithViewBump(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *repository) Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
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

func (r *repository) Delete(ctx context.Context, orderID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		Delete(&models.Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ReplaceTags(ctx context.Context, order *models.Order, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(order).Association("Tags").Replace(tags)
}

func (r *repository) ReplaceFiles(ctx context.Context, order *models.Order, files []models.File) error {
	return r.db.WithContext(ctx).Model(order).Association("Files").Replace(files)
}

const openOrderCondition = "orders.accepted_offer_id IS NULL AND orders.completed_at IS NULL"

func (r *repository) ListAvailable(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error) {
	query := r.baseList(ctx).Where(openOrderCondition)
	return r.runList(query, params, filters)
}

func (r *repository) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error) {
	query := r.baseList(ctx).Where("orders.created_by_id = ?", customerID)
	return r.runList(query, params, filters)
}

// ListForArtist returns orders an artist may browse: every open order plus
// any order whose accepted offer belongs to them.
func (r *repository) ListForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error) {
	query := r.baseList(ctx).Where(
		fmt.Sprintf("(%s) OR %s", openOrderCondition, acceptedByArtistCondition),
		artistID,
	)
	return r.runList(query, params, filters)
}

const acceptedByArtistCondition = "orders.accepted_offer_id IN (SELECT offers.id FROM offers WHERE offers.artist_id = ?)"

func (r *repository) ListAcceptedForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params) (*OrderList, error) {
	query := r.baseList(ctx).Where(acceptedByArtistCondition, artistID)
	return r.runList(query, params, Filters{})
}

func (r *repository) TopOpenByViews(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where(openOrderCondition).
		Order("views DESC, created_at ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) baseList(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("CreatedBy").
		Preload("Tags")
}

func (r *repository) runList(query *gorm.DB, params pagination.Params, filters Filters) (*OrderList, error) {
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("orders.title ILIKE ? OR orders.description ILIKE ?", like, like)
	}
	if filters.Tag != "" {
		query = query.Where(
			"orders.id IN (SELECT ot.order_id FROM order_tags ot JOIN tags t ON t.id = ot.tag_id WHERE t.title = lower(?))",
			filters.Tag,
		)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(orders.created_at, orders.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err = query.
		Order("orders.created_at DESC, orders.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	page, hasMore := pagination.Window(rows, params.Limit)
	list := &OrderList{Orders: toSummaries(page)}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func toSummaries(rows []models.Order) []OrderSummary {
	summaries := make([]OrderSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, toSummary(&rows[i]))
	}
	return summaries
}

func toSummary(order *models.Order) OrderSummary {
	summary := OrderSummary{
		ID:          order.ID,
		Title:       order.Title,
		Description: order.Description,
		CompleteTo:  order.CompleteTo,
		CompletedAt: order.CompletedAt,
		Views:       order.Views,
		State:       StateOf(order.AcceptedOfferID, order.CompletedAt),
		Tags:        make([]string, 0, len(order.Tags)),
		CreatedAt:   order.CreatedAt,
	}
	for _, tag := range order.Tags {
		summary.Tags = append(summary.Tags, tag.Title)
	}
	if order.CreatedBy != nil {
		summary.Customer = CustomerSummary{
			ID:        order.CreatedBy.ID,
			FirstName: order.CreatedBy.FirstName,
			LastName:  order.CreatedBy.LastName,
		}
	}
	return summary
}

package masterpieces

import (
	"context"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a masterpieces repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, piece *models.Masterpiece) (*models.Masterpiece, error) {
	if err := r.db.WithContext(ctx).Create(piece).Error; err != nil {
		return nil, err
	}
	return piece, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Masterpiece, error) {
	var piece models.Masterpiece
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Preload("Order").
		Preload("Tags").
		Preload("Files").
		Where("id = ?", id).
		First(&piece).Error
	if err != nil {
		return nil, err
	}
	return &piece, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Masterpiece, error) {
	var piece models.Masterpiece
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Where("order_id = ?", orderID).
		First(&piece).Error
	if err != nil {
		return nil, err
	}
	return &piece, nil
}

func (r *repository) Update(ctx context.Context, pieceID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Masterpiece{}).
		Where("id = ?", pieceID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ReplaceTags(ctx context.Context, piece *models.Masterpiece, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(piece).Association("Tags").Replace(tags)
}

func (r *repository) ReplaceFiles(ctx context.Context, piece *models.Masterpiece, files []models.File) error {
	return r.db.WithContext(ctx).Model(piece).Association("Files").Replace(files)
}

func (r *repository) FindOrderWithAcceptedOffer(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("AcceptedOffer").
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

func (r *repository) ListGallery(ctx context.Context, params pagination.Params, filters Filters) (*MasterpieceList, error) {
	query := r.baseList(ctx).Where("masterpieces.visible = ?", true)
	return r.runList(query, params, filters)
}

func (r *repository) ListForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params, filters Filters) (*MasterpieceList, error) {
	query := r.baseList(ctx).Where("masterpieces.artist_id = ?", artistID)
	return r.runList(query, params, filters)
}

// ListForCustomer returns pieces delivered against the customer's own orders,
// visible or not.
func (r *repository) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*MasterpieceList, error) {
	query := r.baseList(ctx).Where(
		"masterpieces.order_id IN (SELECT orders.id FROM orders WHERE orders.created_by_id = ?)",
		customerID,
	)
	return r.runList(query, params, filters)
}

func (r *repository) baseList(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Masterpiece{}).
		Preload("Artist").
		Preload("Tags")
}

func (r *repository) runList(query *gorm.DB, params pagination.Params, filters Filters) (*MasterpieceList, error) {
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("masterpieces.title ILIKE ? OR masterpieces.description ILIKE ?", like, like)
	}
	if filters.Tag != "" {
		query = query.Where(
			"masterpieces.id IN (SELECT mt.masterpiece_id FROM masterpiece_tags mt JOIN tags t ON t.id = mt.tag_id WHERE t.title = lower(?))",
			filters.Tag,
		)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(masterpieces.created_at, masterpieces.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Masterpiece
	err = query.
		Order("masterpieces.created_at DESC, masterpieces.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	page, hasMore := pagination.Window(rows, params.Limit)
	list := &MasterpieceList{Masterpieces: toSummaries(page)}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func toSummaries(rows []models.Masterpiece) []MasterpieceSummary {
	summaries := make([]MasterpieceSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, toSummary(&rows[i]))
	}
	return summaries
}

func toSummary(piece *models.Masterpiece) MasterpieceSummary {
	summary := MasterpieceSummary{
		ID:             piece.ID,
		OrderID:        piece.OrderID,
		Title:          piece.Title,
		Description:    piece.Description,
		State:          StateOf(piece.CustomerRate, piece.DeclineMessage),
		DeclineMessage: piece.DeclineMessage,
		Visible:        piece.Visible,
		Tags:           make([]string, 0, len(piece.Tags)),
		CreatedAt:      piece.CreatedAt,
	}
	if piece.CustomerRate != nil {
		rate := int(*piece.CustomerRate)
		summary.CustomerRate = &rate
	}
	for _, tag := range piece.Tags {
		summary.Tags = append(summary.Tags, tag.Title)
	}
	if piece.Artist != nil {
		summary.Artist = ArtistSummary{
			ID:        piece.Artist.ID,
			FirstName: piece.Artist.FirstName,
			LastName:  piece.Artist.LastName,
		}
	}
	return summary
}

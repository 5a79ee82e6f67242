package users

import (
	"context"
	"time"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// ListActiveArtistIDs returns every active artist. Used by the digest
// notification fan-out.
func (r *Repository) ListActiveArtistIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_active = ?", "ARTIST", true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ArtistStats aggregates the artist's rating mean and completed-order count.
func (r *Repository) ArtistStats(ctx context.Context, artistID uuid.UUID) (*ArtistStats, error) {
	stats := &ArtistStats{ArtistID: artistID}

	row := struct {
		Avg   *float64
		Count int64
	}{}
	err := r.db.WithContext(ctx).
		Model(&models.Masterpiece{}).
		Select("AVG(customer_rate) AS avg, COUNT(*) AS count").
		Where("artist_id = ? AND customer_rate IS NOT NULL", artistID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	stats.AverageRate = row.Avg
	stats.RatedPieces = row.Count

	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Joins("JOIN offers ON offers.id = orders.accepted_offer_id").
		Where("offers.artist_id = ? AND orders.completed_at IS NOT NULL", artistID).
		Count(&stats.CompletedOrders).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

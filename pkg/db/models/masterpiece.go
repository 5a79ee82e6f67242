package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/artorders/artorders-backend/pkg/enums"
)

// Masterpiece is the delivered artwork artifact, optionally linked 1:1 to an
// order carrying an accepted offer by the same artist.
type Masterpiece struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ArtistID       uuid.UUID           `gorm:"column:artist_id;type:uuid;not null"`
	Artist         *User               `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"`
	OrderID        *uuid.UUID          `gorm:"column:order_id;type:uuid;uniqueIndex"`
	Order          *Order              `gorm:"foreignKey:OrderID;constraint:OnDelete:SET NULL"`
	Title          string              `gorm:"column:title;not null"`
	Description    string              `gorm:"column:description;not null"`
	CustomerRate   *enums.CustomerRate `gorm:"column:customer_rate"`
	DeclineMessage *string             `gorm:"column:decline_message"`
	Visible        bool                `gorm:"column:visible;not null;default:true"`
	Tags           []Tag               `gorm:"many2many:masterpiece_tags;constraint:OnDelete:CASCADE"`
	Files          []File              `gorm:"many2many:masterpiece_files;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// IsRated reports whether the customer already scored the piece. Rated is
// terminal.
func (m Masterpiece) IsRated() bool {
	return m.CustomerRate != nil
}

// IsDeclinedByCustomer reports whether the piece awaits resubmission.
func (m Masterpiece) IsDeclinedByCustomer() bool {
	return m.CustomerRate == nil && m.DeclineMessage != nil && *m.DeclineMessage != ""
}

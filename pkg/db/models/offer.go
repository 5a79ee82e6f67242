package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Offer represents an artist bid on an order. At most one offer per
// (order, artist) pair; accepted_at and declined_at are mutually exclusive.
type Offer struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_offers_order_artist"`
	Order            *Order          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ArtistID         uuid.UUID       `gorm:"column:artist_id;type:uuid;not null;uniqueIndex:idx_offers_order_artist"`
	Artist           *User           `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"`
	Fee              decimal.Decimal `gorm:"column:fee;type:numeric(6,0);not null"`
	AcceptedAt       *time.Time      `gorm:"column:accepted_at"`
	DeclinedAt       *time.Time      `gorm:"column:declined_at"`
	ChangesRequested bool            `gorm:"column:changes_requested;not null;default:false"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// IsOpen reports whether the offer can still transition.
func (o Offer) IsOpen() bool {
	return o.AcceptedAt == nil && o.DeclinedAt == nil
}

// IsAccepted reports whether the offer was accepted.
func (o Offer) IsAccepted() bool {
	return o.AcceptedAt != nil
}

// IsDeclined reports whether the offer was declined.
func (o Offer) IsDeclined() bool {
	return o.DeclinedAt != nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a commission request posted by a customer.
//
// AcceptedOfferID is written exactly once, inside the offer acceptance
// transaction. CompletedAt is stamped only when the delivered masterpiece
// receives a customer rating.
type Order struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedByID     uuid.UUID  `gorm:"column:created_by_id;type:uuid;not null"`
	CreatedBy       *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	Title           string     `gorm:"column:title;not null"`
	Description     string     `gorm:"column:description;not null"`
	CompleteTo      time.Time  `gorm:"column:complete_to;not null"`
	CompletedAt     *time.Time `gorm:"column:completed_at"`
	Views           int64      `gorm:"column:views;not null;default:0"`
	AcceptedOfferID *uuid.UUID `gorm:"column:accepted_offer_id;type:uuid;uniqueIndex"`
	AcceptedOffer   *Offer     `gorm:"foreignKey:AcceptedOfferID;constraint:OnDelete:SET NULL"`
	Tags            []Tag      `gorm:"many2many:order_tags;constraint:OnDelete:CASCADE"`
	Files           []File     `gorm:"many2many:order_files;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// IsOpen reports whether the order still accepts offers.
func (o Order) IsOpen() bool {
	return o.AcceptedOfferID == nil && o.CompletedAt == nil
}

// IsCompleted reports whether the lifecycle is closed.
func (o Order) IsCompleted() bool {
	return o.CompletedAt != nil
}

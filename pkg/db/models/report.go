package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/artorders/artorders-backend/pkg/enums"
)

// Report is an append-only complaint record. Exactly one of the three target
// columns is set, matching TargetType.
type Report struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedByID   uuid.UUID              `gorm:"column:created_by_id;type:uuid;not null"`
	CreatedBy     *User                  `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	TargetType    enums.ReportTargetType `gorm:"column:target_type;type:text;not null"`
	UserID        *uuid.UUID             `gorm:"column:user_id;type:uuid"`
	OrderID       *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	MasterpieceID *uuid.UUID             `gorm:"column:masterpiece_id;type:uuid"`
	Description   string                 `gorm:"column:description;not null"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
}

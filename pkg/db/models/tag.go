package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a flat label shared by orders and masterpieces. Titles are stored
// lowercase so uniqueness is case-insensitive.
type Tag struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string    `gorm:"column:title;type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

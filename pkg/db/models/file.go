package models

import (
	"time"

	"github.com/google/uuid"
)

// File captures metadata for an uploaded attachment. The blob itself lives in
// an external object store addressed by StorageKey.
type File struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StorageKey   string     `gorm:"column:storage_key;not null;unique"`
	FileName     string     `gorm:"column:file_name;not null"`
	MimeType     string     `gorm:"column:mime_type;not null"`
	SizeBytes    int64      `gorm:"column:size_bytes;not null"`
	UploadedByID *uuid.UUID `gorm:"column:uploaded_by_id;type:uuid"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

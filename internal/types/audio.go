package types

import (
	"time"

	"github.com/google/uuid"
)

// Audio is an uploaded source recording. The orchestrator only reads these
// records; upload and CRUD live in AudioService.
type Audio struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string    `gorm:"not null" json:"title"`
	Artist       string    `json:"artist"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `gorm:"not null" json:"file_path"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Audio) TableName() string { return "audios" }

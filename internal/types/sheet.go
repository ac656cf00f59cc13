package types

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Sheet is the user-facing chord chart produced when a transcription or
// difficulty job completes. SheetDataURL points at the downloadable chord
// artifact for the job that produced it.
type Sheet struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	AudioID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"audio_id"`
	Title        string     `gorm:"not null" json:"title"`
	Artist       string     `json:"artist"`
	Instrument   string     `json:"instrument"`
	Difficulty   Difficulty `gorm:"not null;default:normal" json:"difficulty"`
	Key          string     `json:"key"`
	SheetDataURL string     `json:"sheet_data_url"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (Sheet) TableName() string { return "sheets" }

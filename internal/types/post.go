package types

import (
	"time"

	"github.com/google/uuid"
)

// Post is the public listing record created alongside every new sheet.
type Post struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SheetID        uuid.UUID `gorm:"type:uuid;not null;index" json:"sheet_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title          string    `gorm:"not null" json:"title"`
	Artist         string    `json:"artist"`
	AuthorNickname string    `json:"author_nickname"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

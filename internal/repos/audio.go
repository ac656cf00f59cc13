package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/types"
)

type AudioRepo interface {
	Create(ctx context.Context, tx *gorm.DB, audios []*types.Audio) ([]*types.Audio, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Audio, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Audio, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type audioRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAudioRepo(db *gorm.DB, baseLog *logger.Logger) AudioRepo {
	return &audioRepo{db: db, log: baseLog.With("repo", "AudioRepo")}
}

func (r *audioRepo) Create(ctx context.Context, tx *gorm.DB, audios []*types.Audio) ([]*types.Audio, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(audios) == 0 {
		return []*types.Audio{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&audios).Error; err != nil {
		return nil, err
	}
	return audios, nil
}

func (r *audioRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Audio, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var audio types.Audio
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&audio).Error
	if err != nil {
		return nil, err
	}
	if audio.ID == uuid.Nil {
		return nil, nil
	}
	return &audio, nil
}

func (r *audioRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Audio, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Audio
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *audioRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Audio{}).Error
}

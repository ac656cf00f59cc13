package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/types"
)

type TranscriptionJobRepo interface {
	Create(ctx context.Context, tx *gorm.DB, jobs []*types.TranscriptionJob) ([]*types.TranscriptionJob, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TranscriptionJob, error)
	ListByStage(ctx context.Context, tx *gorm.DB, stage types.Stage) ([]*types.TranscriptionJob, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TranscriptionJob, error)
	ExistsActiveForAudio(ctx context.Context, tx *gorm.DB, audioID uuid.UUID) (bool, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	// UpdateFieldsWhereStage applies updates only if the job is still in
	// fromStage, and reports whether a row changed. This is the
	// compare-and-set primitive behind every stage transition.
	UpdateFieldsWhereStage(ctx context.Context, tx *gorm.DB, id uuid.UUID, fromStage types.Stage, updates map[string]interface{}) (bool, error)
}

type transcriptionJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTranscriptionJobRepo(db *gorm.DB, baseLog *logger.Logger) TranscriptionJobRepo {
	return &transcriptionJobRepo{db: db, log: baseLog.With("repo", "TranscriptionJobRepo")}
}

func (r *transcriptionJobRepo) Create(ctx context.Context, tx *gorm.DB, jobs []*types.TranscriptionJob) ([]*types.TranscriptionJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(jobs) == 0 {
		return []*types.TranscriptionJob{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *transcriptionJobRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TranscriptionJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var job types.TranscriptionJob
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&job).Error
	if err != nil {
		return nil, err
	}
	if job.ID == uuid.Nil {
		return nil, nil
	}
	return &job, nil
}

func (r *transcriptionJobRepo) ListByStage(ctx context.Context, tx *gorm.DB, stage types.Stage) ([]*types.TranscriptionJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TranscriptionJob
	if err := transaction.WithContext(ctx).
		Where("stage = ?", stage).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *transcriptionJobRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TranscriptionJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TranscriptionJob
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *transcriptionJobRepo) ExistsActiveForAudio(ctx context.Context, tx *gorm.DB, audioID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.TranscriptionJob{}).
		Where("audio_id = ? AND stage IN ?", audioID, types.ActiveStages).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *transcriptionJobRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.TranscriptionJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *transcriptionJobRepo) UpdateFieldsWhereStage(ctx context.Context, tx *gorm.DB, id uuid.UUID, fromStage types.Stage, updates map[string]interface{}) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.TranscriptionJob{}).
		Where("id = ? AND stage = ?", id, fromStage).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

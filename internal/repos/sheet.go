package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/types"
)

type SheetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sheets []*types.Sheet) ([]*types.Sheet, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Sheet, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Sheet, error)
	Search(ctx context.Context, tx *gorm.DB, query string) ([]*types.Sheet, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type sheetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSheetRepo(db *gorm.DB, baseLog *logger.Logger) SheetRepo {
	return &sheetRepo{db: db, log: baseLog.With("repo", "SheetRepo")}
}

func (r *sheetRepo) Create(ctx context.Context, tx *gorm.DB, sheets []*types.Sheet) ([]*types.Sheet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(sheets) == 0 {
		return []*types.Sheet{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

func (r *sheetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Sheet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var sheet types.Sheet
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&sheet).Error
	if err != nil {
		return nil, err
	}
	if sheet.ID == uuid.Nil {
		return nil, nil
	}
	return &sheet, nil
}

func (r *sheetRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Sheet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Sheet
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sheetRepo) Search(ctx context.Context, tx *gorm.DB, query string) ([]*types.Sheet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Sheet
	q := transaction.WithContext(ctx).Order("created_at DESC")
	query = strings.TrimSpace(query)
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("title LIKE ? OR artist LIKE ?", pattern, pattern)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sheetRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Sheet{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *sheetRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Sheet{}).Error
}

package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/types"
)

type PostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Post, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Post, error)
	GetBySheetID(ctx context.Context, tx *gorm.DB, sheetID uuid.UUID) (*types.Post, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return &postRepo{db: db, log: baseLog.With("repo", "PostRepo")}
}

func (r *postRepo) Create(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(posts) == 0 {
		return []*types.Post{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var post types.Post
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&post).Error
	if err != nil {
		return nil, err
	}
	if post.ID == uuid.Nil {
		return nil, nil
	}
	return &post, nil
}

func (r *postRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var out []*types.Post
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postRepo) GetBySheetID(ctx context.Context, tx *gorm.DB, sheetID uuid.UUID) (*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var post types.Post
	err := transaction.WithContext(ctx).
		Where("sheet_id = ?", sheetID).
		Limit(1).
		Find(&post).Error
	if err != nil {
		return nil, err
	}
	if post.ID == uuid.Nil {
		return nil, nil
	}
	return &post, nil
}

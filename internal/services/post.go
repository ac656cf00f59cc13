package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/platform/apierr"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/repos"
	"github.com/chordist/chordist-backend/internal/types"
)

// PostDetail joins a listing post with the sheet it advertises.
type PostDetail struct {
	Post  *types.Post  `json:"post"`
	Sheet *types.Sheet `json:"sheet,omitempty"`
}

type PostService interface {
	List(ctx context.Context, limit int) ([]*types.Post, error)
	Get(ctx context.Context, postID uuid.UUID) (*PostDetail, error)
}

type postService struct {
	db        *gorm.DB
	log       *logger.Logger
	postRepo  repos.PostRepo
	sheetRepo repos.SheetRepo
}

func NewPostService(db *gorm.DB, baseLog *logger.Logger, postRepo repos.PostRepo, sheetRepo repos.SheetRepo) PostService {
	return &postService{
		db:        db,
		log:       baseLog.With("service", "PostService"),
		postRepo:  postRepo,
		sheetRepo: sheetRepo,
	}
}

func (s *postService) List(ctx context.Context, limit int) ([]*types.Post, error) {
	return s.postRepo.List(ctx, nil, limit)
}

func (s *postService) Get(ctx context.Context, postID uuid.UUID) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, nil, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apierr.NotFound("post_not_found", fmt.Errorf("post %s not found", postID))
	}
	sheet, err := s.sheetRepo.GetByID(ctx, nil, post.SheetID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Sheet: sheet}, nil
}

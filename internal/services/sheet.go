package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/platform/apierr"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/repos"
	"github.com/chordist/chordist-backend/internal/types"
)

type SheetService interface {
	Get(ctx context.Context, userID, sheetID uuid.UUID) (*types.Sheet, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Sheet, error)
	Search(ctx context.Context, query string) ([]*types.Sheet, error)
	Rename(ctx context.Context, userID, sheetID uuid.UUID, title string) (*types.Sheet, error)
	Delete(ctx context.Context, userID, sheetID uuid.UUID) error
}

type sheetService struct {
	db        *gorm.DB
	log       *logger.Logger
	sheetRepo repos.SheetRepo
}

func NewSheetService(db *gorm.DB, baseLog *logger.Logger, sheetRepo repos.SheetRepo) SheetService {
	return &sheetService{
		db:        db,
		log:       baseLog.With("service", "SheetService"),
		sheetRepo: sheetRepo,
	}
}

func (s *sheetService) Get(ctx context.Context, userID, sheetID uuid.UUID) (*types.Sheet, error) {
	sheet, err := s.sheetRepo.GetByID(ctx, nil, sheetID)
	if err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, apierr.NotFound("sheet_not_found", fmt.Errorf("sheet %s not found", sheetID))
	}
	if sheet.UserID != userID {
		return nil, apierr.Forbidden("sheet_forbidden", fmt.Errorf("sheet %s does not belong to user %s", sheetID, userID))
	}
	return sheet, nil
}

func (s *sheetService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Sheet, error) {
	return s.sheetRepo.ListByUserID(ctx, nil, userID)
}

func (s *sheetService) Search(ctx context.Context, query string) ([]*types.Sheet, error) {
	return s.sheetRepo.Search(ctx, nil, query)
}

func (s *sheetService) Rename(ctx context.Context, userID, sheetID uuid.UUID, title string) (*types.Sheet, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apierr.BadRequest("missing_title", fmt.Errorf("title is required"))
	}
	sheet, err := s.Get(ctx, userID, sheetID)
	if err != nil {
		return nil, err
	}
	if err := s.sheetRepo.UpdateFields(ctx, nil, sheetID, map[string]interface{}{
		"title": title,
	}); err != nil {
		return nil, err
	}
	sheet.Title = title
	return sheet, nil
}

func (s *sheetService) Delete(ctx context.Context, userID, sheetID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, sheetID); err != nil {
		return err
	}
	return s.sheetRepo.Delete(ctx, nil, sheetID)
}

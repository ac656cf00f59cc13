package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/clients/aiserver"
	"github.com/chordist/chordist-backend/internal/platform/apierr"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/repos"
	"github.com/chordist/chordist-backend/internal/types"
)

type DifficultyService interface {
	// Request enqueues an easier or harder rewrite of an existing sheet's
	// chord chart. The new sheet inherits the source sheet's audio, so the
	// one-active-job-per-audio rule applies across both job kinds.
	Request(ctx context.Context, userID, sheetID uuid.UUID, jobType types.JobType) (*types.TranscriptionJob, error)
}

type difficultyService struct {
	db        *gorm.DB
	log       *logger.Logger
	jobRepo   repos.TranscriptionJobRepo
	sheetRepo repos.SheetRepo
	gateway   aiserver.Client
	artifacts *ArtifactStore
	notifier  JobNotifier
}

func NewDifficultyService(
	db *gorm.DB,
	baseLog *logger.Logger,
	jobRepo repos.TranscriptionJobRepo,
	sheetRepo repos.SheetRepo,
	gateway aiserver.Client,
	artifacts *ArtifactStore,
	notifier JobNotifier,
) DifficultyService {
	return &difficultyService{
		db:        db,
		log:       baseLog.With("service", "DifficultyService"),
		jobRepo:   jobRepo,
		sheetRepo: sheetRepo,
		gateway:   gateway,
		artifacts: artifacts,
		notifier:  notifier,
	}
}

func (s *difficultyService) Request(ctx context.Context, userID, sheetID uuid.UUID, jobType types.JobType) (*types.TranscriptionJob, error) {
	if jobType != types.JobTypeEasier && jobType != types.JobTypeHarder {
		return nil, apierr.BadRequest("invalid_job_type", fmt.Errorf("job type %q is not a difficulty rewrite", jobType))
	}

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

	chordFile, err := s.artifacts.ResolveChordFile(sheet.SheetDataURL)
	if err != nil {
		return nil, apierr.BadRequest("sheet_has_no_chord_data", err)
	}

	job := types.NewDifficultyJob(userID, sheet.AudioID, sheet.ID, sheet.Instrument, jobType)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := s.jobRepo.ExistsActiveForAudio(ctx, tx, sheet.AudioID)
		if err != nil {
			return err
		}
		if active {
			return apierr.Conflict("job_already_processing", fmt.Errorf("audio %s already has an active job", sheet.AudioID))
		}
		_, err = s.jobRepo.Create(ctx, tx, []*types.TranscriptionJob{job})
		return err
	})
	if err != nil {
		return nil, err
	}

	enq, err := s.gateway.EnqueueDifficulty(ctx, chordFile, jobType)
	return finishEnqueue(ctx, s.log, s.jobRepo, s.notifier, job, enq, err)
}

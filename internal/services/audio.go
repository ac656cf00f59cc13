package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/platform/apierr"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/repos"
	"github.com/chordist/chordist-backend/internal/types"
)

type AudioService interface {
	Upload(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader, title, artist string) (*types.Audio, error)
	Get(ctx context.Context, userID, audioID uuid.UUID) (*types.Audio, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Audio, error)
	Delete(ctx context.Context, userID, audioID uuid.UUID) error
}

type audioService struct {
	db        *gorm.DB
	log       *logger.Logger
	audioRepo repos.AudioRepo
	jobRepo   repos.TranscriptionJobRepo
	files     FileStore
}

func NewAudioService(db *gorm.DB, baseLog *logger.Logger, audioRepo repos.AudioRepo, jobRepo repos.TranscriptionJobRepo, files FileStore) AudioService {
	return &audioService{
		db:        db,
		log:       baseLog.With("service", "AudioService"),
		audioRepo: audioRepo,
		jobRepo:   jobRepo,
		files:     files,
	}
}

func (s *audioService) Upload(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader, title, artist string) (*types.Audio, error) {
	if file == nil {
		return nil, apierr.BadRequest("missing_file", fmt.Errorf("audio file is required"))
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}

	path, size, err := s.files.SaveUpload(file)
	if err != nil {
		return nil, err
	}

	audio := &types.Audio{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		Artist:       strings.TrimSpace(artist),
		OriginalName: file.Filename,
		FilePath:     path,
		ContentType:  file.Header.Get("Content-Type"),
		SizeBytes:    size,
	}
	if _, err := s.audioRepo.Create(ctx, nil, []*types.Audio{audio}); err != nil {
		// Orphaned files are worse than a failed request; best-effort cleanup.
		if rerr := s.files.Remove(path); rerr != nil {
			s.log.Warn("Failed to remove orphaned upload", "path", path, "error", rerr)
		}
		return nil, err
	}
	s.log.Info("Audio uploaded", "audio_id", audio.ID, "user_id", userID, "bytes", size)
	return audio, nil
}

func (s *audioService) Get(ctx context.Context, userID, audioID uuid.UUID) (*types.Audio, error) {
	audio, err := s.audioRepo.GetByID(ctx, nil, audioID)
	if err != nil {
		return nil, err
	}
	if audio == nil {
		return nil, apierr.NotFound("audio_not_found", fmt.Errorf("audio %s not found", audioID))
	}
	if audio.UserID != userID {
		return nil, apierr.Forbidden("audio_forbidden", fmt.Errorf("audio %s does not belong to user %s", audioID, userID))
	}
	return audio, nil
}

func (s *audioService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Audio, error) {
	return s.audioRepo.ListByUserID(ctx, nil, userID)
}

func (s *audioService) Delete(ctx context.Context, userID, audioID uuid.UUID) error {
	audio, err := s.Get(ctx, userID, audioID)
	if err != nil {
		return err
	}
	active, err := s.jobRepo.ExistsActiveForAudio(ctx, nil, audioID)
	if err != nil {
		return err
	}
	if active {
		return apierr.Conflict("audio_in_use", fmt.Errorf("audio %s has an active transcription job", audioID))
	}
	if err := s.audioRepo.Delete(ctx, nil, audioID); err != nil {
		return err
	}
	if err := s.files.Remove(audio.FilePath); err != nil {
		s.log.Warn("Failed to remove audio file", "path", audio.FilePath, "error", err)
	}
	return nil
}

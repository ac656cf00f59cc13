package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/clients/aiserver"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/repos"
	"github.com/chordist/chordist-backend/internal/types"
)

// Materializer turns a completed remote result into local state: downloaded
// artifacts on disk plus a Sheet and Post created in one transaction. The
// poller guarantees it runs at most once per job via the finalizing stage.
type Materializer interface {
	Materialize(ctx context.Context, job *types.TranscriptionJob, result *aiserver.Result) (*types.Sheet, error)
}

type materializer struct {
	db        *gorm.DB
	log       *logger.Logger
	gateway   aiserver.Client
	artifacts *ArtifactStore
	audioRepo repos.AudioRepo
	sheetRepo repos.SheetRepo
	postRepo  repos.PostRepo
	userRepo  repos.UserRepo
	jobRepo   repos.TranscriptionJobRepo
}

func NewMaterializer(
	db *gorm.DB,
	baseLog *logger.Logger,
	gateway aiserver.Client,
	artifacts *ArtifactStore,
	audioRepo repos.AudioRepo,
	sheetRepo repos.SheetRepo,
	postRepo repos.PostRepo,
	userRepo repos.UserRepo,
	jobRepo repos.TranscriptionJobRepo,
) Materializer {
	return &materializer{
		db:        db,
		log:       baseLog.With("service", "Materializer"),
		gateway:   gateway,
		artifacts: artifacts,
		audioRepo: audioRepo,
		sheetRepo: sheetRepo,
		postRepo:  postRepo,
		userRepo:  userRepo,
		jobRepo:   jobRepo,
	}
}

func (m *materializer) Materialize(ctx context.Context, job *types.TranscriptionJob, result *aiserver.Result) (*types.Sheet, error) {
	switch job.JobType {
	case types.JobTypeTranscribe:
		return m.materializeTranscription(ctx, job, result)
	case types.JobTypeEasier, types.JobTypeHarder:
		return m.materializeDifficulty(ctx, job, result)
	default:
		return nil, fmt.Errorf("materialize: unknown job type %q", job.JobType)
	}
}

func (m *materializer) materializeTranscription(ctx context.Context, job *types.TranscriptionJob, result *aiserver.Result) (*types.Sheet, error) {
	if result.ChordProgressionURL == "" {
		return nil, fmt.Errorf("result for job %s carries no chord progression artifact", job.AiJobID)
	}

	g, gctx := errgroup.WithContext(ctx)
	for instrument, url := range result.SeparatedTracks.ByInstrument {
		g.Go(func() error {
			return m.gateway.DownloadArtifact(gctx, url, m.artifacts.SeparatedTrackPath(job.AiJobID, instrument))
		})
	}
	if result.SeparatedTracks.Single != "" {
		g.Go(func() error {
			return m.gateway.DownloadArtifact(gctx, result.SeparatedTracks.Single, m.artifacts.SeparatedMixPath(job.AiJobID))
		})
	}
	if result.TranscriptionURL != "" {
		g.Go(func() error {
			return m.gateway.DownloadArtifact(gctx, result.TranscriptionURL, m.artifacts.MidiPath(job.AiJobID))
		})
	}
	g.Go(func() error {
		return m.gateway.DownloadArtifact(gctx, result.ChordProgressionURL, m.artifacts.ChordPath(job.AiJobID))
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("download artifacts: %w", err)
	}

	audio, err := m.audioRepo.GetByID(ctx, nil, job.AudioID)
	if err != nil {
		return nil, err
	}
	if audio == nil {
		return nil, fmt.Errorf("audio %s for job %s no longer exists", job.AudioID, job.ID)
	}

	key := ""
	if result.UnifiedProgression != nil {
		key = result.UnifiedProgression.Key
	}
	sheet := &types.Sheet{
		ID:           uuid.New(),
		UserID:       job.UserID,
		AudioID:      job.AudioID,
		Title:        audio.Title,
		Artist:       audio.Artist,
		Instrument:   job.Instrument,
		Difficulty:   types.DifficultyNormal,
		Key:          key,
		SheetDataURL: m.artifacts.ChordDownloadURL(job.AiJobID),
	}
	if err := m.persist(ctx, job, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

func (m *materializer) materializeDifficulty(ctx context.Context, job *types.TranscriptionJob, result *aiserver.Result) (*types.Sheet, error) {
	url := result.EasierChordProgressionURL
	difficulty := types.DifficultyEasy
	suffix := " (Easy)"
	if job.JobType == types.JobTypeHarder {
		url = result.ComplexifiedChordProgressionURL
		difficulty = types.DifficultyHard
		suffix = " (Hard)"
	}
	if url == "" {
		return nil, fmt.Errorf("result for job %s carries no rewritten chord chart", job.AiJobID)
	}
	if job.SheetID == nil {
		return nil, fmt.Errorf("difficulty job %s has no source sheet", job.ID)
	}
	source, err := m.sheetRepo.GetByID(ctx, nil, *job.SheetID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("source sheet %s for job %s no longer exists", *job.SheetID, job.ID)
	}

	if err := m.gateway.DownloadArtifact(ctx, url, m.artifacts.ChordPath(job.AiJobID)); err != nil {
		return nil, fmt.Errorf("download rewritten chord chart: %w", err)
	}

	sheet := &types.Sheet{
		ID:           uuid.New(),
		UserID:       job.UserID,
		AudioID:      job.AudioID,
		Title:        source.Title + suffix,
		Artist:       source.Artist,
		Instrument:   source.Instrument,
		Difficulty:   difficulty,
		Key:          source.Key,
		SheetDataURL: m.artifacts.ChordDownloadURL(job.AiJobID),
	}
	if err := m.persist(ctx, job, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// persist creates the sheet, its listing post, and the job's result link in
// one transaction, so a crash leaves either all records or none.
func (m *materializer) persist(ctx context.Context, job *types.TranscriptionJob, sheet *types.Sheet) error {
	nickname := ""
	users, err := m.userRepo.GetByIDs(ctx, nil, []uuid.UUID{job.UserID})
	if err != nil {
		return err
	}
	if len(users) > 0 {
		nickname = users[0].Nickname
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := m.sheetRepo.Create(ctx, tx, []*types.Sheet{sheet}); err != nil {
			return err
		}
		post := &types.Post{
			ID:             uuid.New(),
			SheetID:        sheet.ID,
			UserID:         job.UserID,
			Title:          sheet.Title,
			Artist:         sheet.Artist,
			AuthorNickname: nickname,
		}
		if _, err := m.postRepo.Create(ctx, tx, []*types.Post{post}); err != nil {
			return err
		}
		if err := m.jobRepo.UpdateFields(ctx, tx, job.ID, map[string]interface{}{
			"result_sheet_id": sheet.ID,
		}); err != nil {
			return err
		}
		job.ResultSheetID = &sheet.ID
		return nil
	})
}

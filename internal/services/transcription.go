package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/clients/aiserver"
	"github.com/chordist/chordist-backend/internal/platform/apierr"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/repos"
	"github.com/chordist/chordist-backend/internal/types"
)

// JobStatus is the projection returned by status queries: the public stage,
// progress, and whichever artifacts are already downloadable.
type JobStatus struct {
	JobID         uuid.UUID     `json:"job_id"`
	JobType       types.JobType `json:"job_type"`
	Stage         types.Stage   `json:"stage"`
	Progress      int           `json:"progress"`
	Instrument    string        `json:"instrument,omitempty"`
	Error         string        `json:"error,omitempty"`
	ResultSheetID *uuid.UUID    `json:"result_sheet_id,omitempty"`

	SeparatedTracksReady bool `json:"separated_tracks_ready"`
	MidiReady            bool `json:"midi_ready"`
	ChordsReady          bool `json:"chords_ready"`

	SeparatedAudioURL   string `json:"separated_audio_url,omitempty"`
	TranscriptionURL    string `json:"transcription_url,omitempty"`
	ChordProgressionURL string `json:"chord_progression_url,omitempty"`
}

type TranscriptionService interface {
	// Request validates ownership and the instrument, atomically claims the
	// audio's single active-job slot, and enqueues on the AI server.
	Request(ctx context.Context, userID, audioID uuid.UUID, instrument string) (*types.TranscriptionJob, error)
	GetStatus(ctx context.Context, userID, jobID uuid.UUID) (*JobStatus, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.TranscriptionJob, error)
}

type transcriptionService struct {
	db        *gorm.DB
	log       *logger.Logger
	jobRepo   repos.TranscriptionJobRepo
	audioRepo repos.AudioRepo
	gateway   aiserver.Client
	artifacts *ArtifactStore
	notifier  JobNotifier
	tuning    Tuning
}

func NewTranscriptionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	jobRepo repos.TranscriptionJobRepo,
	audioRepo repos.AudioRepo,
	gateway aiserver.Client,
	artifacts *ArtifactStore,
	notifier JobNotifier,
	tuning Tuning,
) TranscriptionService {
	return &transcriptionService{
		db:        db,
		log:       baseLog.With("service", "TranscriptionService"),
		jobRepo:   jobRepo,
		audioRepo: audioRepo,
		gateway:   gateway,
		artifacts: artifacts,
		notifier:  notifier,
		tuning:    tuning,
	}
}

func (s *transcriptionService) Request(ctx context.Context, userID, audioID uuid.UUID, instrument string) (*types.TranscriptionJob, error) {
	instrument = strings.ToLower(strings.TrimSpace(instrument))
	if !s.tuning.SupportsInstrument(instrument) {
		return nil, apierr.BadRequest("instrument_not_supported", fmt.Errorf("instrument %q is not supported", instrument))
	}

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

	job := types.NewTranscriptionJob(userID, audioID, instrument)
	// Existence check and insert share one transaction so two concurrent
	// requests for the same audio cannot both claim the slot.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := s.jobRepo.ExistsActiveForAudio(ctx, tx, audioID)
		if err != nil {
			return err
		}
		if active {
			return apierr.Conflict("job_already_processing", fmt.Errorf("audio %s already has an active job", audioID))
		}
		_, err = s.jobRepo.Create(ctx, tx, []*types.TranscriptionJob{job})
		return err
	})
	if err != nil {
		return nil, err
	}

	enq, err := s.gateway.EnqueueTranscription(ctx, audio.FilePath, instrument)
	return finishEnqueue(ctx, s.log, s.jobRepo, s.notifier, job, enq, err)
}

// finishEnqueue records the outcome of the remote enqueue call on a freshly
// created pending job. Shared by the transcription and difficulty services.
func finishEnqueue(ctx context.Context, log *logger.Logger, jobRepo repos.TranscriptionJobRepo, notifier JobNotifier, job *types.TranscriptionJob, enq *aiserver.EnqueueResult, enqErr error) (*types.TranscriptionJob, error) {
	now := time.Now().UTC()
	if enqErr != nil {
		next, terr := types.NextStage(job.Stage, types.EventEnqueueFailed)
		if terr != nil {
			return nil, terr
		}
		msg := "AI server rejected the request: " + enqErr.Error()
		if err := jobRepo.UpdateFields(ctx, nil, job.ID, map[string]interface{}{
			"stage":     next,
			"error":     msg,
			"failed_at": now,
		}); err != nil {
			return nil, err
		}
		job.Stage = next
		job.Error = msg
		job.FailedAt = &now
		notifier.JobFailed(job, msg)
		log.Warn("Enqueue failed", "job_id", job.ID, "job_type", job.JobType, "error", enqErr)
		return nil, apierr.BadGateway("ai_server_unavailable", enqErr)
	}

	next, terr := types.NextStage(job.Stage, types.EventEnqueueOK)
	if terr != nil {
		return nil, terr
	}
	if err := jobRepo.UpdateFields(ctx, nil, job.ID, map[string]interface{}{
		"stage":      next,
		"ai_job_id":  enq.JobID,
		"started_at": now,
	}); err != nil {
		return nil, err
	}
	job.Stage = next
	job.AiJobID = enq.JobID
	job.StartedAt = &now
	notifier.JobCreated(job)
	log.Info("Job enqueued", "job_id", job.ID, "ai_job_id", enq.JobID, "job_type", job.JobType)
	return job, nil
}

func (s *transcriptionService) GetStatus(ctx context.Context, userID, jobID uuid.UUID) (*JobStatus, error) {
	job, err := s.jobRepo.GetByID(ctx, nil, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apierr.NotFound("job_not_found", fmt.Errorf("job %s not found", jobID))
	}
	if job.UserID != userID {
		return nil, apierr.Forbidden("job_forbidden", fmt.Errorf("job %s does not belong to user %s", jobID, userID))
	}
	return s.project(job), nil
}

func (s *transcriptionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.TranscriptionJob, error) {
	return s.jobRepo.ListByUserID(ctx, nil, userID)
}

// project derives artifact readiness from progress thresholds while a job is
// running, and from completion once it is done. Difficulty jobs only ever
// produce a chord chart.
func (s *transcriptionService) project(job *types.TranscriptionJob) *JobStatus {
	st := &JobStatus{
		JobID:         job.ID,
		JobType:       job.JobType,
		Stage:         job.Stage.Public(),
		Progress:      job.Progress,
		Instrument:    job.Instrument,
		Error:         job.Error,
		ResultSheetID: job.ResultSheetID,
	}
	if job.Stage == types.StageFailed {
		return st
	}

	completed := job.Stage == types.StageCompleted
	if job.JobType == types.JobTypeTranscribe {
		st.SeparatedTracksReady = completed || job.Progress >= s.tuning.Readiness.SeparatedTracks
		st.MidiReady = completed || job.Progress >= s.tuning.Readiness.Midi
	}
	st.ChordsReady = completed || job.Progress >= s.tuning.Readiness.Chords

	if job.AiJobID == "" {
		return st
	}
	if st.SeparatedTracksReady {
		st.SeparatedAudioURL = s.artifacts.SeparatedDownloadURL(job.AiJobID, job.Instrument)
	}
	if st.MidiReady {
		st.TranscriptionURL = s.artifacts.MidiDownloadURL(job.AiJobID)
	}
	if st.ChordsReady {
		st.ChordProgressionURL = s.artifacts.ChordDownloadURL(job.AiJobID)
	}
	return st
}

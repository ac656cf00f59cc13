package services

import (
	"context"
	"time"

	redisclient "github.com/chordist/chordist-backend/internal/clients/redis"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/sse"
	"github.com/chordist/chordist-backend/internal/types"
)

// JobNotifier pushes transcription job lifecycle events to the submitting
// user's SSE channel. Best-effort: delivery failures never affect job state.
type JobNotifier interface {
	JobCreated(job *types.TranscriptionJob)
	JobProgress(job *types.TranscriptionJob, progress int)
	JobCompleted(job *types.TranscriptionJob)
	JobFailed(job *types.TranscriptionJob, reason string)
}

type jobEventPayload struct {
	JobID         string  `json:"jobId"`
	JobType       string  `json:"jobType"`
	Stage         string  `json:"stage"`
	Progress      int     `json:"progress"`
	ResultSheetID *string `json:"resultSheetId,omitempty"`
	Error         string  `json:"error,omitempty"`
}

type jobNotifier struct {
	log *logger.Logger
	hub *sse.Hub
	bus redisclient.JobBus // nil when running single-instance
}

func NewJobNotifier(log *logger.Logger, hub *sse.Hub, bus redisclient.JobBus) JobNotifier {
	return &jobNotifier{
		log: log.With("service", "JobNotifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *jobNotifier) JobCreated(job *types.TranscriptionJob) {
	n.emit(job, sse.EventJobCreated, job.Progress, "")
}

func (n *jobNotifier) JobProgress(job *types.TranscriptionJob, progress int) {
	n.emit(job, sse.EventJobProgress, progress, "")
}

func (n *jobNotifier) JobCompleted(job *types.TranscriptionJob) {
	n.emit(job, sse.EventJobCompleted, 100, "")
}

func (n *jobNotifier) JobFailed(job *types.TranscriptionJob, reason string) {
	n.emit(job, sse.EventJobFailed, job.Progress, reason)
}

func (n *jobNotifier) emit(job *types.TranscriptionJob, event sse.Event, progress int, reason string) {
	payload := jobEventPayload{
		JobID:    job.ID.String(),
		JobType:  string(job.JobType),
		Stage:    string(job.Stage.Public()),
		Progress: progress,
		Error:    reason,
	}
	if job.ResultSheetID != nil {
		id := job.ResultSheetID.String()
		payload.ResultSheetID = &id
	}
	msg := sse.Message{
		Channel: job.UserID.String(),
		Event:   event,
		Data:    payload,
	}
	n.hub.Broadcast(msg)
	if n.bus != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := n.bus.Publish(ctx, msg); err != nil {
			n.log.Warn("Failed to publish job event to bus", "job_id", job.ID, "error", err)
		}
	}
}

// NopNotifier discards all events; used by tests that exercise job flow
// without an SSE hub.
type NopNotifier struct{}

func (NopNotifier) JobCreated(*types.TranscriptionJob)        {}
func (NopNotifier) JobProgress(*types.TranscriptionJob, int)  {}
func (NopNotifier) JobCompleted(*types.TranscriptionJob)      {}
func (NopNotifier) JobFailed(*types.TranscriptionJob, string) {}

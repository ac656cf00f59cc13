package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/clients/aiserver"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/repos"
	"github.com/chordist/chordist-backend/internal/types"
)

// Poller reconciles local processing jobs against the AI server on a fixed
// interval. Passes never overlap: if a tick fires while the previous pass is
// still running, that tick is skipped rather than queued.
type Poller struct {
	db           *gorm.DB
	log          *logger.Logger
	jobRepo      repos.TranscriptionJobRepo
	gateway      aiserver.Client
	materializer Materializer
	notifier     JobNotifier
	interval     time.Duration
	maxAge       time.Duration

	mu sync.Mutex
}

func NewPoller(
	db *gorm.DB,
	baseLog *logger.Logger,
	jobRepo repos.TranscriptionJobRepo,
	gateway aiserver.Client,
	materializer Materializer,
	notifier JobNotifier,
	interval time.Duration,
	maxAge time.Duration,
) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Poller{
		db:           db,
		log:          baseLog.With("service", "TranscriptionPoller"),
		jobRepo:      jobRepo,
		gateway:      gateway,
		materializer: materializer,
		notifier:     notifier,
		interval:     interval,
		maxAge:       maxAge,
	}
}

// Start runs the reconciliation loop until ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		p.log.Info("Poller started", "interval", p.interval, "max_age", p.maxAge)
		for {
			select {
			case <-ctx.Done():
				p.log.Info("Poller stopped")
				return
			case <-ticker.C:
				p.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce executes a single reconciliation pass. Safe to call concurrently;
// only one pass runs at a time and extra callers return immediately.
func (p *Poller) RunOnce(ctx context.Context) {
	if !p.mu.TryLock() {
		p.log.Debug("Skipping poll tick; previous pass still running")
		return
	}
	defer p.mu.Unlock()

	jobs, err := p.jobRepo.ListByStage(ctx, nil, types.StageProcessing)
	if err != nil {
		p.log.Error("Failed to list processing jobs", "error", err)
		return
	}
	for _, job := range jobs {
		p.reconcileOne(ctx, job)
	}
}

// reconcileOne isolates one job's reconciliation: a panic or error in one job
// forces that job to failed and never disturbs the rest of the batch.
func (p *Poller) reconcileOne(ctx context.Context, job *types.TranscriptionJob) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Panic while reconciling job", "job_id", job.ID, "panic", r)
			p.fail(ctx, job, p.failureEvent(job), fmt.Sprintf("internal error: %v", r))
		}
	}()
	if err := p.reconcile(ctx, job); err != nil {
		p.log.Warn("Job reconciliation failed", "job_id", job.ID, "ai_job_id", job.AiJobID, "error", err)
		p.fail(ctx, job, p.failureEvent(job), err.Error())
	}
}

// failureEvent picks the transition event that moves the job to failed from
// wherever reconciliation left it.
func (p *Poller) failureEvent(job *types.TranscriptionJob) types.StageEvent {
	if job.Stage == types.StageFinalizing {
		return types.EventMaterializeFailed
	}
	return types.EventRemoteFailed
}

func (p *Poller) reconcile(ctx context.Context, job *types.TranscriptionJob) error {
	if p.expired(job) {
		p.log.Warn("Job exceeded max age", "job_id", job.ID, "ai_job_id", job.AiJobID, "max_age", p.maxAge)
		p.fail(ctx, job, types.EventTimeout, fmt.Sprintf("timed out after %s waiting for the AI server", p.maxAge))
		return nil
	}

	st, err := p.gateway.GetStatus(ctx, job.AiJobID, job.JobType)
	if err != nil {
		return fmt.Errorf("poll status: %w", err)
	}

	// Persist forward progress before acting on the remote status, so an
	// interruption mid-pass never loses an observed advance.
	if st.ProgressPercent != nil && *st.ProgressPercent > job.Progress {
		progress := *st.ProgressPercent
		if progress > 100 {
			progress = 100
		}
		if err := p.jobRepo.UpdateFields(ctx, nil, job.ID, map[string]interface{}{
			"progress": progress,
		}); err != nil {
			return fmt.Errorf("persist progress: %w", err)
		}
		job.Progress = progress
		p.notifier.JobProgress(job, progress)
	}

	switch st.Status {
	case aiserver.StatusCompleted:
		return p.finalize(ctx, job)
	case aiserver.StatusFailed:
		msg := "AI server reported failure"
		if st.Error != nil {
			msg = fmt.Sprintf("AI server reported failure: %s: %s", st.Error.Code, st.Error.Message)
		}
		p.fail(ctx, job, types.EventRemoteFailed, msg)
		return nil
	default:
		return nil
	}
}

// finalize claims the completed job via a processing -> finalizing
// compare-and-set, then materializes the result. Losing the claim means
// another pass already owns completion; that is a no-op, not an error.
func (p *Poller) finalize(ctx context.Context, job *types.TranscriptionJob) error {
	next, err := types.NextStage(job.Stage, types.EventRemoteCompleted)
	if err != nil {
		return err
	}
	claimed, err := p.jobRepo.UpdateFieldsWhereStage(ctx, nil, job.ID, types.StageProcessing, map[string]interface{}{
		"stage": next,
	})
	if err != nil {
		return fmt.Errorf("claim completed job: %w", err)
	}
	if !claimed {
		p.log.Debug("Completed job already claimed", "job_id", job.ID)
		return nil
	}
	job.Stage = next

	result, err := p.gateway.GetResult(ctx, job.AiJobID, job.JobType)
	if err != nil {
		p.fail(ctx, job, types.EventMaterializeFailed, fmt.Sprintf("fetch result: %v", err))
		return nil
	}
	sheet, err := p.materializer.Materialize(ctx, job, result)
	if err != nil {
		p.fail(ctx, job, types.EventMaterializeFailed, fmt.Sprintf("completion processing failed: %v", err))
		return nil
	}

	done, err := types.NextStage(job.Stage, types.EventMaterializeOK)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	resultJSON, err := json.Marshal(result)
	if err != nil {
		resultJSON = nil
	}
	updates := map[string]interface{}{
		"stage":        done,
		"progress":     100,
		"completed_at": now,
	}
	if resultJSON != nil {
		updates["result"] = resultJSON
	}
	if _, err := p.jobRepo.UpdateFieldsWhereStage(ctx, nil, job.ID, types.StageFinalizing, updates); err != nil {
		return fmt.Errorf("mark job completed: %w", err)
	}
	job.Stage = done
	job.Progress = 100
	job.CompletedAt = &now
	p.notifier.JobCompleted(job)
	p.log.Info("Job completed", "job_id", job.ID, "ai_job_id", job.AiJobID, "sheet_id", sheet.ID)
	return nil
}

func (p *Poller) expired(job *types.TranscriptionJob) bool {
	if p.maxAge <= 0 {
		return false
	}
	start := job.StartedAt
	if start == nil {
		start = &job.CreatedAt
	}
	return time.Since(*start) > p.maxAge
}

// fail moves a job to failed through the transition table. The stage write is
// guarded on the job's current stage so a concurrent transition wins cleanly.
func (p *Poller) fail(ctx context.Context, job *types.TranscriptionJob, event types.StageEvent, reason string) {
	next, err := types.NextStage(job.Stage, event)
	if err != nil {
		p.log.Warn("Cannot fail job from current stage", "job_id", job.ID, "stage", job.Stage, "event", event)
		return
	}
	now := time.Now().UTC()
	changed, err := p.jobRepo.UpdateFieldsWhereStage(ctx, nil, job.ID, job.Stage, map[string]interface{}{
		"stage":     next,
		"error":     reason,
		"failed_at": now,
	})
	if err != nil {
		p.log.Error("Failed to persist job failure", "job_id", job.ID, "error", err)
		return
	}
	if !changed {
		return
	}
	job.Stage = next
	job.Error = reason
	job.FailedAt = &now
	p.notifier.JobFailed(job, reason)
}

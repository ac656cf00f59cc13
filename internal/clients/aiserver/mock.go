package aiserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/types"
)

// mockProgressStep is how much a mock job advances per status poll, so a job
// completes on its third poll. Deterministic on purpose: tests drive the
// pipeline by counting polls.
const mockProgressStep = 40

type mockJob struct {
	jobType types.JobType
	polls   int
}

// Mock is the offline stand-in for the AI server. Enqueued jobs live in
// memory and advance a fixed amount per poll; downloads create empty
// placeholder files so the materializer path behaves identically.
type Mock struct {
	mu   sync.Mutex
	seq  int
	jobs map[string]*mockJob
	log  *logger.Logger
}

func NewMock(log *logger.Logger) *Mock {
	return &Mock{
		jobs: make(map[string]*mockJob),
		log:  log.With("client", "AiServerMock"),
	}
}

func (m *Mock) EnqueueTranscription(ctx context.Context, audioFilePath, instrument string) (*EnqueueResult, error) {
	return m.enqueue(types.JobTypeTranscribe)
}

func (m *Mock) EnqueueDifficulty(ctx context.Context, chordFilePath string, jobType types.JobType) (*EnqueueResult, error) {
	if jobType != types.JobTypeEasier && jobType != types.JobTypeHarder {
		return nil, fmt.Errorf("enqueue difficulty: unsupported job type %q", jobType)
	}
	return m.enqueue(jobType)
}

func (m *Mock) enqueue(jobType types.JobType) (*EnqueueResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("mock-job-%d", m.seq)
	m.jobs[id] = &mockJob{jobType: jobType}
	m.log.Debug("Mock job enqueued", "ai_job_id", id, "job_type", jobType)
	return &EnqueueResult{JobID: id, Status: StatusQueued}, nil
}

func (m *Mock) GetStatus(ctx context.Context, aiJobID string, jobType types.JobType) (*Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[aiJobID]
	if !ok {
		return nil, fmt.Errorf("mock: unknown job %q", aiJobID)
	}
	job.polls++
	progress := job.polls * mockProgressStep
	if progress >= 100 {
		progress = 100
		return &Status{JobID: aiJobID, Status: StatusCompleted, ProgressPercent: &progress}, nil
	}
	return &Status{JobID: aiJobID, Status: StatusProcessing, ProgressPercent: &progress}, nil
}

func (m *Mock) GetResult(ctx context.Context, aiJobID string, jobType types.JobType) (*Result, error) {
	m.mu.Lock()
	job, ok := m.jobs[aiJobID]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("mock: unknown job %q", aiJobID)
	}

	base := "/results/" + aiJobID
	res := &Result{
		JobID:              aiJobID,
		Format:             "json",
		UnifiedProgression: &UnifiedProgression{Key: "C", TimeSignature: "4/4"},
	}
	switch job.jobType {
	case types.JobTypeEasier:
		res.EasierChordProgressionURL = base + "/easier_chord_progression.json"
	case types.JobTypeHarder:
		res.ComplexifiedChordProgressionURL = base + "/complexified_chord_progression.json"
	default:
		res.TranscriptionURL = base + "/transcription.mid"
		res.ChordProgressionURL = base + "/chord_progression.json"
		res.SeparatedTracks = SeparatedTracks{ByInstrument: map[string]string{
			"guitar": base + "/separated/guitar.opus",
			"bass":   base + "/separated/bass.opus",
			"drums":  base + "/separated/drums.opus",
			"vocal":  base + "/separated/vocal.opus",
		}}
	}
	return res, nil
}

// DownloadArtifact creates an empty placeholder so downstream path handling
// is exercised without network I/O.
func (m *Mock) DownloadArtifact(ctx context.Context, url, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	return f.Close()
}

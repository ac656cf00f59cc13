package aiserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/types"
)

// Remote job status values as reported by the AI server.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type EnqueueResult struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	QueuedAt string `json:"queued_at"`
}

type RemoteError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Status struct {
	JobID           string       `json:"job_id"`
	Status          string       `json:"status"`
	ProgressPercent *int         `json:"progress_percent"`
	CurrentStage    string       `json:"current_stage"`
	Error           *RemoteError `json:"error"`
}

// SeparatedTracks accepts both wire shapes the AI server has used: a single
// URL string, or an object mapping instrument name to URL.
type SeparatedTracks struct {
	Single       string
	ByInstrument map[string]string
}

func (s *SeparatedTracks) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		s.Single = single
		return nil
	}
	var byInstrument map[string]string
	if err := json.Unmarshal(data, &byInstrument); err == nil {
		s.ByInstrument = byInstrument
		return nil
	}
	return fmt.Errorf("separated tracks: unsupported shape %q", string(data))
}

func (s SeparatedTracks) Empty() bool {
	return s.Single == "" && len(s.ByInstrument) == 0
}

type UnifiedProgression struct {
	Key           string `json:"key"`
	TimeSignature string `json:"time_signature"`
}

// Result is the artifact descriptor returned once a remote job completes.
type Result struct {
	JobID                           string
	TranscriptionURL                string
	ChordProgressionURL             string
	EasierChordProgressionURL       string
	ComplexifiedChordProgressionURL string
	Format                          string
	SeparatedTracks                 SeparatedTracks
	UnifiedProgression              *UnifiedProgression
}

// The AI server has emitted both snake_case and camelCase at different
// versions; decode both and keep whichever is present.
func (r *Result) UnmarshalJSON(data []byte) error {
	var aux struct {
		JobID  string `json:"job_id"`
		JobID2 string `json:"jobId"`

		TranscriptionURL  string `json:"transcription_url"`
		TranscriptionURL2 string `json:"transcriptionUrl"`

		ChordProgressionURL  string `json:"chord_progression_url"`
		ChordProgressionURL2 string `json:"chordProgressionUrl"`

		EasierChordProgressionURL  string `json:"easier_chord_progression_url"`
		EasierChordProgressionURL2 string `json:"easierChordProgressionUrl"`

		ComplexifiedChordProgressionURL  string `json:"complexified_chord_progression_url"`
		ComplexifiedChordProgressionURL2 string `json:"complexifiedChordProgressionUrl"`

		Format string `json:"format"`

		SeparatedTracks  *SeparatedTracks `json:"separated_tracks"`
		SeparatedTracks2 *SeparatedTracks `json:"separated_audio_url"`
		SeparatedTracks3 *SeparatedTracks `json:"separatedAudioUrl"`

		UnifiedProgression  *UnifiedProgression `json:"unified_progression"`
		UnifiedProgression2 *UnifiedProgression `json:"unifiedProgression"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.JobID = firstNonEmpty(aux.JobID, aux.JobID2)
	r.TranscriptionURL = firstNonEmpty(aux.TranscriptionURL, aux.TranscriptionURL2)
	r.ChordProgressionURL = firstNonEmpty(aux.ChordProgressionURL, aux.ChordProgressionURL2)
	r.EasierChordProgressionURL = firstNonEmpty(aux.EasierChordProgressionURL, aux.EasierChordProgressionURL2)
	r.ComplexifiedChordProgressionURL = firstNonEmpty(aux.ComplexifiedChordProgressionURL, aux.ComplexifiedChordProgressionURL2)
	r.Format = aux.Format
	for _, st := range []*SeparatedTracks{aux.SeparatedTracks, aux.SeparatedTracks2, aux.SeparatedTracks3} {
		if st != nil && !st.Empty() {
			r.SeparatedTracks = *st
			break
		}
	}
	r.UnifiedProgression = aux.UnifiedProgression
	if r.UnifiedProgression == nil {
		r.UnifiedProgression = aux.UnifiedProgression2
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Client abstracts the remote AI inference protocol. The real and mock
// implementations expose identical contracts so callers never branch on mode.
type Client interface {
	EnqueueTranscription(ctx context.Context, audioFilePath, instrument string) (*EnqueueResult, error)
	EnqueueDifficulty(ctx context.Context, chordFilePath string, jobType types.JobType) (*EnqueueResult, error)
	GetStatus(ctx context.Context, aiJobID string, jobType types.JobType) (*Status, error)
	GetResult(ctx context.Context, aiJobID string, jobType types.JobType) (*Result, error)
	DownloadArtifact(ctx context.Context, url, destPath string) error
}

type Config struct {
	BaseURL  string
	MockMode bool
}

// New selects the HTTP-backed client or the deterministic mock by config.
func New(log *logger.Logger, cfg Config) (Client, error) {
	if cfg.MockMode {
		return NewMock(log), nil
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("AI_SERVER_BASE_URL is required outside mock mode")
	}
	return newHTTPClient(log, cfg.BaseURL), nil
}

func taskPath(jobType types.JobType) string {
	switch jobType {
	case types.JobTypeEasier:
		return "easier-chord-recommendation"
	case types.JobTypeHarder:
		return "chord-complexification"
	default:
		return "e2e-base-ready"
	}
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobType string

const (
	JobTypeTranscribe JobType = "transcribe"
	JobTypeEasier     JobType = "easier"
	JobTypeHarder     JobType = "harder"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeTranscribe, JobTypeEasier, JobTypeHarder:
		return true
	}
	return false
}

// TranscriptionJob tracks one request handed to the AI server: identity on
// both sides, lifecycle stage, progress, and linkage to the records it reads
// from and produces. Owned exclusively by the orchestrator; never deleted.
type TranscriptionJob struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AiJobID string    `gorm:"index" json:"ai_job_id,omitempty"`

	JobType JobType `gorm:"not null;index" json:"job_type"`

	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	AudioID uuid.UUID `gorm:"type:uuid;not null;index" json:"audio_id"`
	// SheetID is the source chart for easier/harder jobs; nil for transcribe.
	SheetID *uuid.UUID `gorm:"type:uuid;index" json:"sheet_id,omitempty"`
	// ResultSheetID is set exactly once, on successful completion.
	ResultSheetID *uuid.UUID `gorm:"type:uuid" json:"result_sheet_id,omitempty"`

	Stage      Stage          `gorm:"not null;index" json:"stage"`
	Progress   int            `gorm:"not null;default:0" json:"progress"`
	Instrument string         `json:"instrument,omitempty"`
	Error      string         `json:"error,omitempty"`
	Result     datatypes.JSON `json:"result,omitempty"`

	QueuedAt    *time.Time `json:"queued_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (TranscriptionJob) TableName() string { return "transcription_jobs" }

// NewTranscriptionJob builds a pending end-to-end transcription job.
func NewTranscriptionJob(userID, audioID uuid.UUID, instrument string) *TranscriptionJob {
	now := time.Now().UTC()
	return &TranscriptionJob{
		ID:         uuid.New(),
		JobType:    JobTypeTranscribe,
		UserID:     userID,
		AudioID:    audioID,
		Stage:      StagePending,
		Progress:   0,
		Instrument: instrument,
		QueuedAt:   &now,
	}
}

// NewDifficultyJob builds a pending easier/harder rewrite job for an existing
// sheet. The instrument is inherited from the source sheet.
func NewDifficultyJob(userID, audioID, sheetID uuid.UUID, instrument string, jobType JobType) *TranscriptionJob {
	now := time.Now().UTC()
	return &TranscriptionJob{
		ID:         uuid.New(),
		JobType:    jobType,
		UserID:     userID,
		AudioID:    audioID,
		SheetID:    &sheetID,
		Stage:      StagePending,
		Progress:   0,
		Instrument: instrument,
		QueuedAt:   &now,
	}
}

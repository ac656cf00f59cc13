package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/clients/aiserver"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/repos"
	"github.com/chordist/chordist-backend/internal/repos/testutil"
	"github.com/chordist/chordist-backend/internal/types"
)

type jobEnv struct {
	ctx       context.Context
	tx        *gorm.DB
	log       *logger.Logger
	jobRepo   repos.TranscriptionJobRepo
	audioRepo repos.AudioRepo
	sheetRepo repos.SheetRepo
	postRepo  repos.PostRepo
	userRepo  repos.UserRepo
	artifacts *ArtifactStore
}

// newJobEnv wires repos and services against a rolled-back transaction, with
// artifact downloads landing in a per-test temp dir.
func newJobEnv(t *testing.T) *jobEnv {
	t.Helper()
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	return &jobEnv{
		ctx:       context.Background(),
		tx:        tx,
		log:       log,
		jobRepo:   repos.NewTranscriptionJobRepo(tx, log),
		audioRepo: repos.NewAudioRepo(tx, log),
		sheetRepo: repos.NewSheetRepo(tx, log),
		postRepo:  repos.NewPostRepo(tx, log),
		userRepo:  repos.NewUserRepo(tx, log),
		artifacts: NewArtifactStore(t.TempDir()),
	}
}

func (e *jobEnv) transcriptionService(t *testing.T, gateway aiserver.Client) TranscriptionService {
	t.Helper()
	return NewTranscriptionService(e.tx, e.log, e.jobRepo, e.audioRepo, gateway, e.artifacts, NopNotifier{}, DefaultTuning())
}

func (e *jobEnv) difficultyService(t *testing.T, gateway aiserver.Client) DifficultyService {
	t.Helper()
	return NewDifficultyService(e.tx, e.log, e.jobRepo, e.sheetRepo, gateway, e.artifacts, NopNotifier{})
}

func (e *jobEnv) materializer(t *testing.T, gateway aiserver.Client) Materializer {
	t.Helper()
	return NewMaterializer(e.tx, e.log, gateway, e.artifacts, e.audioRepo, e.sheetRepo, e.postRepo, e.userRepo, e.jobRepo)
}

func (e *jobEnv) poller(t *testing.T, gateway aiserver.Client, maxAge time.Duration) *Poller {
	t.Helper()
	return NewPoller(e.tx, e.log, e.jobRepo, gateway, e.materializer(t, gateway), NopNotifier{}, time.Second, maxAge)
}

// stubGateway lets tests script each remote call independently.
type stubGateway struct {
	enqueueErr  error
	statusFn    func(aiJobID string) (*aiserver.Status, error)
	resultFn    func(aiJobID string) (*aiserver.Result, error)
	downloadErr error
	statusCalls int
}

func (g *stubGateway) EnqueueTranscription(ctx context.Context, audioFilePath, instrument string) (*aiserver.EnqueueResult, error) {
	if g.enqueueErr != nil {
		return nil, g.enqueueErr
	}
	return &aiserver.EnqueueResult{JobID: "stub-job", Status: aiserver.StatusQueued}, nil
}

func (g *stubGateway) EnqueueDifficulty(ctx context.Context, chordFilePath string, jobType types.JobType) (*aiserver.EnqueueResult, error) {
	if g.enqueueErr != nil {
		return nil, g.enqueueErr
	}
	return &aiserver.EnqueueResult{JobID: "stub-job", Status: aiserver.StatusQueued}, nil
}

func (g *stubGateway) GetStatus(ctx context.Context, aiJobID string, jobType types.JobType) (*aiserver.Status, error) {
	g.statusCalls++
	if g.statusFn != nil {
		return g.statusFn(aiJobID)
	}
	progress := 10
	return &aiserver.Status{JobID: aiJobID, Status: aiserver.StatusProcessing, ProgressPercent: &progress}, nil
}

func (g *stubGateway) GetResult(ctx context.Context, aiJobID string, jobType types.JobType) (*aiserver.Result, error) {
	if g.resultFn != nil {
		return g.resultFn(aiJobID)
	}
	return &aiserver.Result{JobID: aiJobID}, nil
}

func (g *stubGateway) DownloadArtifact(ctx context.Context, url, destPath string) error {
	return g.downloadErr
}

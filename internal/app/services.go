package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/clients/aiserver"
	redisclient "github.com/chordist/chordist-backend/internal/clients/redis"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/services"
	"github.com/chordist/chordist-backend/internal/sse"
)

type Services struct {
	Auth          services.AuthService
	Audio         services.AudioService
	Sheet         services.SheetService
	Post          services.PostService
	Transcription services.TranscriptionService
	Difficulty    services.DifficultyService
	Poller        *services.Poller
	Notifier      services.JobNotifier

	Gateway   aiserver.Client
	Artifacts *services.ArtifactStore
	Tuning    services.Tuning
	JobBus    redisclient.JobBus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, hub *sse.Hub) (Services, error) {
	tuning, err := services.LoadTuning(cfg.TuningPath)
	if err != nil {
		return Services{}, fmt.Errorf("load tuning: %w", err)
	}

	gateway, err := aiserver.New(log, aiserver.Config{
		BaseURL:  cfg.AiServerBaseURL,
		MockMode: cfg.AiServerMockMode,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init ai server client: %w", err)
	}

	// The Redis bus is optional; without it, SSE events stay instance-local.
	var bus redisclient.JobBus
	if cfg.RedisAddr != "" {
		bus, err = redisclient.NewJobBus(log, cfg.RedisAddr, "")
		if err != nil {
			return Services{}, fmt.Errorf("init redis job bus: %w", err)
		}
	}

	files, err := services.NewLocalFileStore(cfg.UploadDir, log)
	if err != nil {
		return Services{}, err
	}
	artifacts := services.NewArtifactStore(cfg.TranscriptionDir)
	notifier := services.NewJobNotifier(log, hub, bus)

	materializer := services.NewMaterializer(db, log, gateway, artifacts, r.Audio, r.Sheet, r.Post, r.User, r.TranscriptionJob)
	poller := services.NewPoller(db, log, r.TranscriptionJob, gateway, materializer, notifier, cfg.PollInterval, cfg.JobMaxAge)

	return Services{
		Auth:          services.NewAuthService(db, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Audio:         services.NewAudioService(db, log, r.Audio, r.TranscriptionJob, files),
		Sheet:         services.NewSheetService(db, log, r.Sheet),
		Post:          services.NewPostService(db, log, r.Post, r.Sheet),
		Transcription: services.NewTranscriptionService(db, log, r.TranscriptionJob, r.Audio, gateway, artifacts, notifier, tuning),
		Difficulty:    services.NewDifficultyService(db, log, r.TranscriptionJob, r.Sheet, gateway, artifacts, notifier),
		Poller:        poller,
		Notifier:      notifier,
		Gateway:       gateway,
		Artifacts:     artifacts,
		Tuning:        tuning,
		JobBus:        bus,
	}, nil
}

package app

import (
	httpH "github.com/chordist/chordist-backend/internal/http/handlers"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/sse"
)

type Handlers struct {
	Health        *httpH.HealthHandler
	Auth          *httpH.AuthHandler
	Audio         *httpH.AudioHandler
	Transcription *httpH.TranscriptionHandler
	Download      *httpH.DownloadHandler
	Sheet         *httpH.SheetHandler
	Post          *httpH.PostHandler
	SSE           *httpH.SSEHandler
}

func wireHandlers(log *logger.Logger, s Services, hub *sse.Hub) Handlers {
	return Handlers{
		Health:        httpH.NewHealthHandler(),
		Auth:          httpH.NewAuthHandler(s.Auth),
		Audio:         httpH.NewAudioHandler(s.Audio),
		Transcription: httpH.NewTranscriptionHandler(s.Transcription, s.Difficulty),
		Download:      httpH.NewDownloadHandler(s.Artifacts, s.Tuning),
		Sheet:         httpH.NewSheetHandler(s.Sheet),
		Post:          httpH.NewPostHandler(s.Post),
		SSE:           httpH.NewSSEHandler(log, hub),
	}
}

package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/chordist/chordist-backend/internal/http"
)

func wireRouter(h Handlers, mw Middleware) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		AuthMiddleware: mw.Auth,

		HealthHandler:        h.Health,
		AuthHandler:          h.Auth,
		AudioHandler:         h.Audio,
		TranscriptionHandler: h.Transcription,
		DownloadHandler:      h.Download,
		SheetHandler:         h.Sheet,
		PostHandler:          h.Post,
		SSEHandler:           h.SSE,
	})
}

package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpH "github.com/chordist/chordist-backend/internal/http/handlers"
	httpMW "github.com/chordist/chordist-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler        *httpH.HealthHandler
	AuthHandler          *httpH.AuthHandler
	AudioHandler         *httpH.AudioHandler
	TranscriptionHandler *httpH.TranscriptionHandler
	DownloadHandler      *httpH.DownloadHandler
	SheetHandler         *httpH.SheetHandler
	PostHandler          *httpH.PostHandler
	SSEHandler           *httpH.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
		// Public listing feed
		if cfg.PostHandler != nil {
			api.GET("/posts", cfg.PostHandler.List)
			api.GET("/posts/:id", cfg.PostHandler.Get)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.SSEHandler != nil {
			protected.GET("/sse/stream", cfg.SSEHandler.Stream)
		}

		if cfg.AudioHandler != nil {
			protected.POST("/audio/upload", cfg.AudioHandler.Upload)
			protected.GET("/audio", cfg.AudioHandler.List)
			protected.GET("/audio/:id", cfg.AudioHandler.Get)
			protected.DELETE("/audio/:id", cfg.AudioHandler.Delete)
		}

		if cfg.TranscriptionHandler != nil {
			protected.POST("/transcription", cfg.TranscriptionHandler.Request)
			protected.GET("/transcription", cfg.TranscriptionHandler.List)
			protected.GET("/transcription/status/:id", cfg.TranscriptionHandler.GetStatus)
			protected.POST("/sheets/:id/easier", cfg.TranscriptionHandler.RequestEasier)
			protected.POST("/sheets/:id/harder", cfg.TranscriptionHandler.RequestHarder)
		}

		if cfg.DownloadHandler != nil {
			protected.GET("/transcription/download/:aiJobId/separated/:instrument", cfg.DownloadHandler.SeparatedTrack)
			protected.GET("/transcription/download/:aiJobId/midi", cfg.DownloadHandler.Midi)
			protected.GET("/transcription/download/:aiJobId/chords/json", cfg.DownloadHandler.ChordProgression)
		}

		if cfg.SheetHandler != nil {
			protected.GET("/sheets", cfg.SheetHandler.List)
			protected.GET("/search/sheets", cfg.SheetHandler.Search)
			protected.GET("/sheets/:id", cfg.SheetHandler.Get)
			protected.PATCH("/sheets/:id", cfg.SheetHandler.Rename)
			protected.DELETE("/sheets/:id", cfg.SheetHandler.Delete)
		}
	}

	return r
}

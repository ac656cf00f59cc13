package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/chordist/chordist-backend/internal/http/response"
	"github.com/chordist/chordist-backend/internal/services"
)

// DownloadHandler serves transcription artifacts from the job-scoped layout
// on disk. Paths are rebuilt from route parameters, never taken from input.
type DownloadHandler struct {
	artifacts *services.ArtifactStore
	tuning    services.Tuning
}

func NewDownloadHandler(artifacts *services.ArtifactStore, tuning services.Tuning) *DownloadHandler {
	return &DownloadHandler{artifacts: artifacts, tuning: tuning}
}

// GET /api/transcription/download/:aiJobId/separated/:instrument
func (h *DownloadHandler) SeparatedTrack(c *gin.Context) {
	aiJobID := c.Param("aiJobId")
	instrument := c.Param("instrument")
	if !h.tuning.SupportsInstrument(instrument) {
		response.RespondError(c, http.StatusBadRequest, "instrument_not_supported",
			fmt.Errorf("instrument %q is not supported", instrument))
		return
	}
	h.serveFile(c, h.artifacts.SeparatedTrackPath(aiJobID, instrument), "audio/ogg")
}

// GET /api/transcription/download/:aiJobId/midi
func (h *DownloadHandler) Midi(c *gin.Context) {
	h.serveFile(c, h.artifacts.MidiPath(c.Param("aiJobId")), "audio/midi")
}

// GET /api/transcription/download/:aiJobId/chords/json
func (h *DownloadHandler) ChordProgression(c *gin.Context) {
	h.serveFile(c, h.artifacts.ChordPath(c.Param("aiJobId")), "application/json")
}

func (h *DownloadHandler) serveFile(c *gin.Context, path, contentType string) {
	if _, err := os.Stat(path); err != nil {
		response.RespondError(c, http.StatusNotFound, "artifact_not_found",
			fmt.Errorf("artifact is not available yet"))
		return
	}
	c.Header("Content-Type", contentType)
	c.File(path)
}

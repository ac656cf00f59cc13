package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chordist/chordist-backend/internal/http/response"
	"github.com/chordist/chordist-backend/internal/requestdata"
	"github.com/chordist/chordist-backend/internal/services"
	"github.com/chordist/chordist-backend/internal/types"
)

type TranscriptionHandler struct {
	transcription services.TranscriptionService
	difficulty    services.DifficultyService
}

func NewTranscriptionHandler(transcription services.TranscriptionService, difficulty services.DifficultyService) *TranscriptionHandler {
	return &TranscriptionHandler{transcription: transcription, difficulty: difficulty}
}

// POST /api/transcription
func (h *TranscriptionHandler) Request(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		AudioID    uuid.UUID `json:"audio_id" binding:"required"`
		Instrument string    `json:"instrument" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	job, err := h.transcription.Request(c.Request.Context(), rd.UserID, req.AudioID, req.Instrument)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"job": job})
}

// GET /api/transcription/status/:id
func (h *TranscriptionHandler) GetStatus(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	status, err := h.transcription.GetStatus(c.Request.Context(), rd.UserID, jobID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, status)
}

// GET /api/transcription
func (h *TranscriptionHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	jobs, err := h.transcription.ListForUser(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"jobs": jobs})
}

// POST /api/sheets/:id/easier
func (h *TranscriptionHandler) RequestEasier(c *gin.Context) {
	h.requestDifficulty(c, types.JobTypeEasier)
}

// POST /api/sheets/:id/harder
func (h *TranscriptionHandler) RequestHarder(c *gin.Context) {
	h.requestDifficulty(c, types.JobTypeHarder)
}

func (h *TranscriptionHandler) requestDifficulty(c *gin.Context, jobType types.JobType) {
	rd := requestdata.GetRequestData(c.Request.Context())
	sheetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_sheet_id", err)
		return
	}
	job, err := h.difficulty.Request(c.Request.Context(), rd.UserID, sheetID, jobType)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"job": job})
}

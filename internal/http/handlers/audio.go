package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chordist/chordist-backend/internal/http/response"
	"github.com/chordist/chordist-backend/internal/requestdata"
	"github.com/chordist/chordist-backend/internal/services"
)

type AudioHandler struct {
	audio services.AudioService
}

func NewAudioHandler(audio services.AudioService) *AudioHandler {
	return &AudioHandler{audio: audio}
}

// POST /api/audio/upload (multipart: file, title, artist)
func (h *AudioHandler) Upload(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	file, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	audio, err := h.audio.Upload(c.Request.Context(), rd.UserID, file, c.PostForm("title"), c.PostForm("artist"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"audio": audio})
}

// GET /api/audio
func (h *AudioHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	audios, err := h.audio.ListForUser(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"audios": audios})
}

// GET /api/audio/:id
func (h *AudioHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	audioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_audio_id", err)
		return
	}
	audio, err := h.audio.Get(c.Request.Context(), rd.UserID, audioID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"audio": audio})
}

// DELETE /api/audio/:id
func (h *AudioHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	audioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_audio_id", err)
		return
	}
	if err := h.audio.Delete(c.Request.Context(), rd.UserID, audioID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "deleted"})
}

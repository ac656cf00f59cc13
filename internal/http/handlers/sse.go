package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/requestdata"
	"github.com/chordist/chordist-backend/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewSSEHandler(log *logger.Logger, hub *sse.Hub) *SSEHandler {
	return &SSEHandler{log: log.With("handler", "SSEHandler"), hub: hub}
}

// GET /api/sse/stream
//
// Subscribes the caller to their own job-event channel and streams until the
// connection drops.
func (h *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	client := h.hub.NewClient(rd.UserID)
	h.hub.Subscribe(client, rd.UserID.String())
	defer h.hub.RemoveClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/chordist/chordist-backend/internal/services"
)

func newDownloadRouter(t *testing.T, baseDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewDownloadHandler(services.NewArtifactStore(baseDir), services.DefaultTuning())
	r := gin.New()
	r.GET("/api/transcription/download/:aiJobId/separated/:instrument", h.SeparatedTrack)
	r.GET("/api/transcription/download/:aiJobId/midi", h.Midi)
	r.GET("/api/transcription/download/:aiJobId/chords/json", h.ChordProgression)
	return r
}

func TestDownloadChordProgression(t *testing.T) {
	baseDir := t.TempDir()
	jobDir := filepath.Join(baseDir, "ai-dl-1")
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	payload := []byte(`{"chords":["Am","F","C","G"]}`)
	if err := os.WriteFile(filepath.Join(jobDir, "chord_progression.json"), payload, 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	r := newDownloadRouter(t, baseDir)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transcription/download/ai-dl-1/chords/json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != string(payload) {
		t.Fatalf("body = %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestDownloadMissingArtifact(t *testing.T) {
	r := newDownloadRouter(t, t.TempDir())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transcription/download/ai-dl-2/midi", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDownloadRejectsUnknownInstrument(t *testing.T) {
	r := newDownloadRouter(t, t.TempDir())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transcription/download/ai-dl-3/separated/accordion", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

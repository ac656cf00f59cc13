package aiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/chordist/chordist-backend/internal/types"
)

func TestHTTPEnqueueTranscription(t *testing.T) {
	var gotInstrument, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/e2e-base-ready/enqueue" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotInstrument = r.FormValue("instrument")
		if f, hdr, err := r.FormFile("audio_file"); err == nil {
			gotFile = hdr.Filename
			f.Close()
		} else {
			t.Errorf("audio_file part missing: %v", err)
		}
		json.NewEncoder(w).Encode(EnqueueResult{JobID: "remote-1", Status: "queued"})
	}))
	defer srv.Close()

	audioPath := filepath.Join(t.TempDir(), "tune.mp3")
	if err := os.WriteFile(audioPath, []byte("mp3-bytes"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	client := newHTTPClient(testLogger(t), srv.URL)
	res, err := client.EnqueueTranscription(context.Background(), audioPath, "guitar")
	if err != nil {
		t.Fatalf("EnqueueTranscription: %v", err)
	}
	if res.JobID != "remote-1" {
		t.Fatalf("job id = %q, want remote-1", res.JobID)
	}
	if gotInstrument != "guitar" || gotFile != "tune.mp3" {
		t.Fatalf("server saw instrument=%q file=%q", gotInstrument, gotFile)
	}
}

func TestHTTPEnqueueErrorSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	audioPath := filepath.Join(t.TempDir(), "tune.mp3")
	if err := os.WriteFile(audioPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	client := newHTTPClient(testLogger(t), srv.URL)
	_, err := client.EnqueueTranscription(context.Background(), audioPath, "guitar")
	if err == nil {
		t.Fatalf("expected error on 503")
	}
}

func TestHTTPGetStatusAndResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tasks/e2e-base-ready/status/remote-2":
			w.Write([]byte(`{"job_id":"remote-2","status":"processing","progress_percent":55,"current_stage":"transcribing"}`))
		case "/tasks/e2e-base-ready/result/remote-2":
			// Object-shaped separated tracks plus camelCase MIDI url.
			w.Write([]byte(`{
				"job_id":"remote-2",
				"transcriptionUrl":"/files/remote-2/out.mid",
				"chord_progression_url":"/files/remote-2/chords.json",
				"separated_tracks":{"guitar":"/files/remote-2/guitar.opus"},
				"unified_progression":{"key":"Am","time_signature":"3/4"}
			}`))
		case "/tasks/easier-chord-recommendation/result/remote-3":
			// String-shaped separated url field should also decode.
			w.Write([]byte(`{"jobId":"remote-3","easier_chord_progression_url":"/files/remote-3/easy.json","separated_audio_url":"/files/remote-3/mix.opus"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := newHTTPClient(testLogger(t), srv.URL)
	ctx := context.Background()

	st, err := client.GetStatus(ctx, "remote-2", types.JobTypeTranscribe)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.Status != StatusProcessing || st.ProgressPercent == nil || *st.ProgressPercent != 55 {
		t.Fatalf("unexpected status %+v", st)
	}

	res, err := client.GetResult(ctx, "remote-2", types.JobTypeTranscribe)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if res.TranscriptionURL != "/files/remote-2/out.mid" {
		t.Fatalf("camelCase transcription url not decoded: %+v", res)
	}
	if res.SeparatedTracks.ByInstrument["guitar"] != "/files/remote-2/guitar.opus" {
		t.Fatalf("object separated tracks not decoded: %+v", res.SeparatedTracks)
	}
	if res.UnifiedProgression == nil || res.UnifiedProgression.Key != "Am" {
		t.Fatalf("unified progression not decoded: %+v", res.UnifiedProgression)
	}

	resEasy, err := client.GetResult(ctx, "remote-3", types.JobTypeEasier)
	if err != nil {
		t.Fatalf("GetResult easier: %v", err)
	}
	if resEasy.JobID != "remote-3" || resEasy.EasierChordProgressionURL == "" {
		t.Fatalf("easier result not decoded: %+v", resEasy)
	}
	if resEasy.SeparatedTracks.Single != "/files/remote-3/mix.opus" {
		t.Fatalf("string separated url not decoded: %+v", resEasy.SeparatedTracks)
	}
}

func TestHTTPDownloadArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files/a.bin" {
			w.Write([]byte("artifact-bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := newHTTPClient(testLogger(t), srv.URL)
	dest := filepath.Join(t.TempDir(), "nested", "a.bin")

	// Relative URL resolves against the base URL.
	if err := client.DownloadArtifact(context.Background(), "/files/a.bin", dest); err != nil {
		t.Fatalf("DownloadArtifact: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "artifact-bytes" {
		t.Fatalf("downloaded %q", data)
	}

	if err := client.DownloadArtifact(context.Background(), "/files/missing.bin", dest); err == nil {
		t.Fatalf("expected error for 404 artifact")
	}
}

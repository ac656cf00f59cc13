package services

import (
	"path/filepath"
	"testing"
)

func TestArtifactStoreLayout(t *testing.T) {
	s := NewArtifactStore("/var/data/transcriptions")

	if got, want := s.MidiPath("ai-1"), filepath.Join("/var/data/transcriptions", "ai-1", "transcription.mid"); got != want {
		t.Fatalf("MidiPath = %q, want %q", got, want)
	}
	if got, want := s.SeparatedTrackPath("ai-1", "bass"), filepath.Join("/var/data/transcriptions", "ai-1", "separated", "bass.opus"); got != want {
		t.Fatalf("SeparatedTrackPath = %q, want %q", got, want)
	}
	if got := s.ChordDownloadURL("ai-1"); got != "/api/transcription/download/ai-1/chords/json" {
		t.Fatalf("ChordDownloadURL = %q", got)
	}
}

func TestResolveChordFileRoundTrip(t *testing.T) {
	s := NewArtifactStore("/var/data/transcriptions")

	path, err := s.ResolveChordFile(s.ChordDownloadURL("ai-42"))
	if err != nil {
		t.Fatalf("ResolveChordFile: %v", err)
	}
	if path != s.ChordPath("ai-42") {
		t.Fatalf("resolved %q, want %q", path, s.ChordPath("ai-42"))
	}
}

func TestResolveChordFileRejectsForeignURL(t *testing.T) {
	s := NewArtifactStore("/var/data/transcriptions")

	for _, url := range []string{"", "https://elsewhere.example/x.json", "/api/sheets/1"} {
		if _, err := s.ResolveChordFile(url); err == nil {
			t.Fatalf("expected error for %q", url)
		}
	}
}

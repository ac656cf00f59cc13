package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTuningDefaults(t *testing.T) {
	tun, err := LoadTuning("")
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if !tun.SupportsInstrument("guitar") || !tun.SupportsInstrument("  Piano ") {
		t.Fatal("default instruments should include guitar and piano")
	}
	if tun.SupportsInstrument("kazoo") {
		t.Fatal("kazoo should not be supported by default")
	}
	if tun.Readiness.SeparatedTracks != 30 || tun.Readiness.Midi != 60 || tun.Readiness.Chords != 90 {
		t.Fatalf("unexpected default thresholds: %+v", tun.Readiness)
	}
}

func TestLoadTuningFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := []byte("instruments:\n  - ukulele\n  - banjo\nreadiness:\n  separated_tracks: 10\n  midi: 50\n  chords: 80\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}

	tun, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if !tun.SupportsInstrument("ukulele") || tun.SupportsInstrument("guitar") {
		t.Fatalf("file should replace the instrument set: %v", tun.Instruments)
	}
	if tun.Readiness.Chords != 80 {
		t.Fatalf("chords threshold = %d, want 80", tun.Readiness.Chords)
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing tuning file")
	}
}

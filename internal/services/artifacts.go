package services

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	midiFileName  = "transcription.mid"
	chordFileName = "chord_progression.json"
	separatedDir  = "separated"
)

// ArtifactStore maps remote job ids onto the job-scoped directory layout
// under the transcription dir, and onto the download routes that serve it:
//
//	{base}/{aiJobID}/separated/{instrument}.opus
//	{base}/{aiJobID}/transcription.mid
//	{base}/{aiJobID}/chord_progression.json
type ArtifactStore struct {
	baseDir string
}

func NewArtifactStore(baseDir string) *ArtifactStore {
	return &ArtifactStore{baseDir: baseDir}
}

func (s *ArtifactStore) BaseDir() string { return s.baseDir }

func (s *ArtifactStore) JobDir(aiJobID string) string {
	return filepath.Join(s.baseDir, aiJobID)
}

func (s *ArtifactStore) MidiPath(aiJobID string) string {
	return filepath.Join(s.JobDir(aiJobID), midiFileName)
}

func (s *ArtifactStore) ChordPath(aiJobID string) string {
	return filepath.Join(s.JobDir(aiJobID), chordFileName)
}

func (s *ArtifactStore) SeparatedTrackPath(aiJobID, instrument string) string {
	return filepath.Join(s.JobDir(aiJobID), separatedDir, instrument+".opus")
}

func (s *ArtifactStore) SeparatedMixPath(aiJobID string) string {
	return filepath.Join(s.JobDir(aiJobID), "separated_audio.opus")
}

func (s *ArtifactStore) ChordDownloadURL(aiJobID string) string {
	return "/api/transcription/download/" + aiJobID + "/chords/json"
}

func (s *ArtifactStore) MidiDownloadURL(aiJobID string) string {
	return "/api/transcription/download/" + aiJobID + "/midi"
}

func (s *ArtifactStore) SeparatedDownloadURL(aiJobID, instrument string) string {
	return "/api/transcription/download/" + aiJobID + "/separated/" + instrument
}

// ResolveChordFile maps a sheet's data URL back to the chord artifact on
// disk, used as the enqueue payload for difficulty jobs.
func (s *ArtifactStore) ResolveChordFile(sheetDataURL string) (string, error) {
	// Expected shape: /api/transcription/download/{aiJobID}/chords/json
	parts := strings.Split(strings.Trim(sheetDataURL, "/"), "/")
	if len(parts) < 4 || parts[0] != "api" || parts[1] != "transcription" || parts[2] != "download" {
		return "", fmt.Errorf("unrecognized sheet data url %q", sheetDataURL)
	}
	aiJobID := parts[3]
	if aiJobID == "" {
		return "", fmt.Errorf("sheet data url %q carries no job id", sheetDataURL)
	}
	return s.ChordPath(aiJobID), nil
}

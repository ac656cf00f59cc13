package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadinessThresholds are the progress percentages at which each artifact
// category becomes downloadable while a job is still running.
type ReadinessThresholds struct {
	SeparatedTracks int `yaml:"separated_tracks"`
	Midi            int `yaml:"midi"`
	Chords          int `yaml:"chords"`
}

// Tuning is operator-adjustable transcription behavior, loadable from YAML.
type Tuning struct {
	Instruments []string            `yaml:"instruments"`
	Readiness   ReadinessThresholds `yaml:"readiness"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Instruments: []string{"guitar", "bass", "drums", "vocal", "piano"},
		Readiness: ReadinessThresholds{
			SeparatedTracks: 30,
			Midi:            60,
			Chords:          90,
		},
	}
}

// LoadTuning reads the tuning file at path; an empty path returns defaults.
// Fields absent from the file keep their default values.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parse tuning file: %w", err)
	}
	if len(t.Instruments) == 0 {
		t.Instruments = DefaultTuning().Instruments
	}
	return t, nil
}

func (t Tuning) SupportsInstrument(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, in := range t.Instruments {
		if in == name {
			return true
		}
	}
	return false
}

package services

import (
	"os"
	"testing"

	"github.com/chordist/chordist-backend/internal/clients/aiserver"
	"github.com/chordist/chordist-backend/internal/repos/testutil"
	"github.com/chordist/chordist-backend/internal/types"
)

func TestMaterializeTranscription(t *testing.T) {
	env := newJobEnv(t)
	gateway := aiserver.NewMock(env.log)
	mat := env.materializer(t, gateway)

	user := testutil.SeedUser(t, env.ctx, env.tx, "mat-trans@test.dev")
	audio := testutil.SeedAudio(t, env.ctx, env.tx, user.ID, "mat-song")

	job := types.NewTranscriptionJob(user.ID, audio.ID, "guitar")
	job.Stage = types.StageFinalizing
	job.AiJobID = "ai-mat-1"
	if _, err := env.jobRepo.Create(env.ctx, nil, []*types.TranscriptionJob{job}); err != nil {
		t.Fatalf("create job: %v", err)
	}

	result := &aiserver.Result{
		JobID:               job.AiJobID,
		TranscriptionURL:    "/results/ai-mat-1/transcription.mid",
		ChordProgressionURL: "/results/ai-mat-1/chord_progression.json",
		SeparatedTracks: aiserver.SeparatedTracks{ByInstrument: map[string]string{
			"guitar": "/results/ai-mat-1/separated/guitar.opus",
			"drums":  "/results/ai-mat-1/separated/drums.opus",
		}},
		UnifiedProgression: &aiserver.UnifiedProgression{Key: "Am", TimeSignature: "4/4"},
	}
	sheet, err := mat.Materialize(env.ctx, job, result)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	if sheet.Title != audio.Title || sheet.Artist != audio.Artist {
		t.Fatalf("sheet title/artist = %q/%q, want audio's", sheet.Title, sheet.Artist)
	}
	if sheet.Difficulty != types.DifficultyNormal {
		t.Fatalf("difficulty = %q, want normal", sheet.Difficulty)
	}
	if sheet.Key != "Am" {
		t.Fatalf("key = %q, want Am", sheet.Key)
	}
	if sheet.SheetDataURL != env.artifacts.ChordDownloadURL(job.AiJobID) {
		t.Fatalf("sheet data url = %q", sheet.SheetDataURL)
	}

	for _, path := range []string{
		env.artifacts.SeparatedTrackPath(job.AiJobID, "guitar"),
		env.artifacts.SeparatedTrackPath(job.AiJobID, "drums"),
		env.artifacts.MidiPath(job.AiJobID),
		env.artifacts.ChordPath(job.AiJobID),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected artifact at %s: %v", path, err)
		}
	}

	post, err := env.postRepo.GetBySheetID(env.ctx, nil, sheet.ID)
	if err != nil {
		t.Fatalf("GetBySheetID: %v", err)
	}
	if post == nil {
		t.Fatal("expected a listing post for the new sheet")
	}
	if post.AuthorNickname != user.Nickname {
		t.Fatalf("post nickname = %q, want %q", post.AuthorNickname, user.Nickname)
	}

	stored, err := env.jobRepo.GetByID(env.ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ResultSheetID == nil || *stored.ResultSheetID != sheet.ID {
		t.Fatal("job should link its result sheet")
	}
}

func TestMaterializeEasierInheritsSource(t *testing.T) {
	env := newJobEnv(t)
	gateway := aiserver.NewMock(env.log)
	mat := env.materializer(t, gateway)

	user := testutil.SeedUser(t, env.ctx, env.tx, "mat-easy@test.dev")
	audio := testutil.SeedAudio(t, env.ctx, env.tx, user.ID, "mat-song-2")
	source := testutil.SeedSheet(t, env.ctx, env.tx, user.ID, audio.ID, "Autumn Leaves")

	job := types.NewDifficultyJob(user.ID, audio.ID, source.ID, source.Instrument, types.JobTypeEasier)
	job.Stage = types.StageFinalizing
	job.AiJobID = "ai-mat-2"
	if _, err := env.jobRepo.Create(env.ctx, nil, []*types.TranscriptionJob{job}); err != nil {
		t.Fatalf("create job: %v", err)
	}

	result := &aiserver.Result{
		JobID:                     job.AiJobID,
		EasierChordProgressionURL: "/results/ai-mat-2/easier_chord_progression.json",
	}
	sheet, err := mat.Materialize(env.ctx, job, result)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	if sheet.Title != "Autumn Leaves (Easy)" {
		t.Fatalf("title = %q", sheet.Title)
	}
	if sheet.Difficulty != types.DifficultyEasy {
		t.Fatalf("difficulty = %q, want easy", sheet.Difficulty)
	}
	if sheet.Instrument != source.Instrument || sheet.Key != source.Key || sheet.Artist != source.Artist {
		t.Fatal("rewritten sheet should inherit instrument, key and artist from its source")
	}
	if _, err := os.Stat(env.artifacts.ChordPath(job.AiJobID)); err != nil {
		t.Fatalf("expected chord artifact: %v", err)
	}
}

func TestMaterializeHarderSuffix(t *testing.T) {
	env := newJobEnv(t)
	mat := env.materializer(t, aiserver.NewMock(env.log))

	user := testutil.SeedUser(t, env.ctx, env.tx, "mat-hard@test.dev")
	audio := testutil.SeedAudio(t, env.ctx, env.tx, user.ID, "mat-song-3")
	source := testutil.SeedSheet(t, env.ctx, env.tx, user.ID, audio.ID, "Blue Bossa")

	job := types.NewDifficultyJob(user.ID, audio.ID, source.ID, source.Instrument, types.JobTypeHarder)
	job.Stage = types.StageFinalizing
	job.AiJobID = "ai-mat-3"
	if _, err := env.jobRepo.Create(env.ctx, nil, []*types.TranscriptionJob{job}); err != nil {
		t.Fatalf("create job: %v", err)
	}

	sheet, err := mat.Materialize(env.ctx, job, &aiserver.Result{
		JobID:                           job.AiJobID,
		ComplexifiedChordProgressionURL: "/results/ai-mat-3/complexified_chord_progression.json",
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if sheet.Title != "Blue Bossa (Hard)" || sheet.Difficulty != types.DifficultyHard {
		t.Fatalf("got title %q difficulty %q", sheet.Title, sheet.Difficulty)
	}
}

func TestMaterializeDifficultyMissingArtifact(t *testing.T) {
	env := newJobEnv(t)
	mat := env.materializer(t, aiserver.NewMock(env.log))

	user := testutil.SeedUser(t, env.ctx, env.tx, "mat-miss@test.dev")
	audio := testutil.SeedAudio(t, env.ctx, env.tx, user.ID, "mat-song-4")
	source := testutil.SeedSheet(t, env.ctx, env.tx, user.ID, audio.ID, "So What")

	job := types.NewDifficultyJob(user.ID, audio.ID, source.ID, source.Instrument, types.JobTypeEasier)
	job.Stage = types.StageFinalizing
	job.AiJobID = "ai-mat-4"
	if _, err := env.jobRepo.Create(env.ctx, nil, []*types.TranscriptionJob{job}); err != nil {
		t.Fatalf("create job: %v", err)
	}

	if _, err := mat.Materialize(env.ctx, job, &aiserver.Result{JobID: job.AiJobID}); err == nil {
		t.Fatal("expected error when result carries no chord artifact")
	}
}

package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chordist/chordist-backend/internal/repos/testutil"
	"github.com/chordist/chordist-backend/internal/types"
)

func TestTranscriptionJobRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewTranscriptionJobRepo(gdb, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "jobs@example.com")
	audio := testutil.SeedAudio(t, ctx, tx, user.ID, "song")

	job := types.NewTranscriptionJob(user.ID, audio.ID, "guitar")
	if _, err := repo.Create(ctx, tx, []*types.TranscriptionJob{job}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Stage != types.StagePending || got.Progress != 0 {
		t.Fatalf("GetByID: unexpected job %+v", got)
	}
	if got.QueuedAt == nil {
		t.Fatalf("queued_at should be set on creation")
	}

	if missing, err := repo.GetByID(ctx, tx, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByID for unknown id: job=%v err=%v", missing, err)
	}
}

func TestExistsActiveForAudio(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewTranscriptionJobRepo(gdb, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "active@example.com")
	audio := testutil.SeedAudio(t, ctx, tx, user.ID, "active-song")

	exists, err := repo.ExistsActiveForAudio(ctx, tx, audio.ID)
	if err != nil {
		t.Fatalf("ExistsActiveForAudio: %v", err)
	}
	if exists {
		t.Fatalf("no jobs yet, expected no active job")
	}

	for _, stage := range []types.Stage{types.StagePending, types.StageProcessing, types.StageFinalizing} {
		job := types.NewTranscriptionJob(user.ID, audio.ID, "guitar")
		job.Stage = stage
		if _, err := repo.Create(ctx, tx, []*types.TranscriptionJob{job}); err != nil {
			t.Fatalf("seed %s job: %v", stage, err)
		}
		exists, err = repo.ExistsActiveForAudio(ctx, tx, audio.ID)
		if err != nil {
			t.Fatalf("ExistsActiveForAudio(%s): %v", stage, err)
		}
		if !exists {
			t.Fatalf("%s job should count as active", stage)
		}
		if err := repo.UpdateFields(ctx, tx, job.ID, map[string]interface{}{"stage": types.StageFailed}); err != nil {
			t.Fatalf("clear %s job: %v", stage, err)
		}
	}

	// Terminal jobs do not block new submissions.
	exists, err = repo.ExistsActiveForAudio(ctx, tx, audio.ID)
	if err != nil {
		t.Fatalf("ExistsActiveForAudio: %v", err)
	}
	if exists {
		t.Fatalf("terminal jobs should not count as active")
	}
}

func TestUpdateFieldsWhereStage(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewTranscriptionJobRepo(gdb, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "cas@example.com")
	audio := testutil.SeedAudio(t, ctx, tx, user.ID, "cas-song")

	job := types.NewTranscriptionJob(user.ID, audio.ID, "guitar")
	job.Stage = types.StageProcessing
	if _, err := repo.Create(ctx, tx, []*types.TranscriptionJob{job}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := repo.UpdateFieldsWhereStage(ctx, tx, job.ID, types.StageProcessing, map[string]interface{}{
		"stage": types.StageFinalizing,
	})
	if err != nil {
		t.Fatalf("UpdateFieldsWhereStage: %v", err)
	}
	if !ok {
		t.Fatalf("first CAS should succeed")
	}

	// Second attempt from the same source stage must lose.
	ok, err = repo.UpdateFieldsWhereStage(ctx, tx, job.ID, types.StageProcessing, map[string]interface{}{
		"stage": types.StageFinalizing,
	})
	if err != nil {
		t.Fatalf("UpdateFieldsWhereStage (second): %v", err)
	}
	if ok {
		t.Fatalf("second CAS from processing should be a no-op")
	}

	got, err := repo.GetByID(ctx, tx, job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Stage != types.StageFinalizing {
		t.Fatalf("stage = %s, want finalizing", got.Stage)
	}
}

func TestListByStageOrdersOldestFirst(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewTranscriptionJobRepo(gdb, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "list@example.com")
	now := time.Now().UTC()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		audio := testutil.SeedAudio(t, ctx, tx, user.ID, "list-song")
		job := types.NewTranscriptionJob(user.ID, audio.ID, "guitar")
		job.Stage = types.StageProcessing
		job.CreatedAt = now.Add(time.Duration(-i) * time.Hour)
		if _, err := repo.Create(ctx, tx, []*types.TranscriptionJob{job}); err != nil {
			t.Fatalf("seed job %d: %v", i, err)
		}
		ids = append(ids, job.ID)
	}

	jobs, err := repo.ListByStage(ctx, tx, types.StageProcessing)
	if err != nil {
		t.Fatalf("ListByStage: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("ListByStage: expected 3 jobs, got %d", len(jobs))
	}
	// Oldest created first: seeded in reverse chronological order.
	if jobs[0].ID != ids[2] || jobs[2].ID != ids[0] {
		t.Fatalf("ListByStage order wrong: %v vs seeded %v", []uuid.UUID{jobs[0].ID, jobs[1].ID, jobs[2].ID}, ids)
	}
}

package repos

import (
	"context"
	"testing"

	"github.com/chordist/chordist-backend/internal/repos/testutil"
	"github.com/chordist/chordist-backend/internal/types"
)

func TestSheetRepoCreateAndSearch(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewSheetRepo(gdb, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "sheets@example.com")
	audio := testutil.SeedAudio(t, ctx, tx, user.ID, "sheet-song")

	sheet := testutil.SeedSheet(t, ctx, tx, user.ID, audio.ID, "Autumn Leaves")

	got, err := repo.GetByID(ctx, tx, sheet.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Title != "Autumn Leaves" || got.Difficulty != types.DifficultyNormal {
		t.Fatalf("GetByID: unexpected sheet %+v", got)
	}

	found, err := repo.Search(ctx, tx, "Autumn")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].ID != sheet.ID {
		t.Fatalf("Search: expected the seeded sheet, got %d rows", len(found))
	}

	if err := repo.UpdateFields(ctx, tx, sheet.ID, map[string]interface{}{"title": "Autumn Leaves (v2)"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, sheet.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Title != "Autumn Leaves (v2)" {
		t.Fatalf("title not updated: %q", got.Title)
	}
}

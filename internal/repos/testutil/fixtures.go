package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		Nickname: "tester",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAudio(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string) *types.Audio {
	tb.Helper()
	a := &types.Audio{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		Artist:       "artist",
		OriginalName: title + ".mp3",
		FilePath:     "uploads/audio/" + title + ".mp3",
		ContentType:  "audio/mpeg",
		SizeBytes:    1024,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed audio: %v", err)
	}
	return a
}

func SeedSheet(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, audioID uuid.UUID, title string) *types.Sheet {
	tb.Helper()
	s := &types.Sheet{
		ID:           uuid.New(),
		UserID:       userID,
		AudioID:      audioID,
		Title:        title,
		Artist:       "artist",
		Instrument:   "guitar",
		Difficulty:   types.DifficultyNormal,
		Key:          "C",
		SheetDataURL: "/api/transcription/download/ai-1/chords/json",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed sheet: %v", err)
	}
	return s
}

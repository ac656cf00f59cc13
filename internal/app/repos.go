package app

import (
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/repos"
)

type Repos struct {
	User             repos.UserRepo
	UserToken        repos.UserTokenRepo
	Audio            repos.AudioRepo
	Sheet            repos.SheetRepo
	Post             repos.PostRepo
	TranscriptionJob repos.TranscriptionJobRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:             repos.NewUserRepo(db, log),
		UserToken:        repos.NewUserTokenRepo(db, log),
		Audio:            repos.NewAudioRepo(db, log),
		Sheet:            repos.NewSheetRepo(db, log),
		Post:             repos.NewPostRepo(db, log),
		TranscriptionJob: repos.NewTranscriptionJobRepo(db, log),
	}
}

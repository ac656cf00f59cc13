package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/types"
)

// Models is the full set of persisted entities, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&types.User{},
		&types.UserToken{},
		&types.Audio{},
		&types.Sheet{},
		&types.Post{},
		&types.TranscriptionJob{},
	}
}

func AutoMigrateAll(gdb *gorm.DB) error {
	for _, m := range Models() {
		if err := gdb.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}

package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/amacast/amacast-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.Session{},
		&types.Question{},
		&types.Tip{},
		&types.ArchivedSessionStats{},
	)
}

// EnsureIndexes creates the constraints GORM tags cannot express. The
// partial unique index is what actually enforces one live session per
// creator under concurrent creates.
func EnsureIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_session_one_live_per_creator
			ON "session" (creator_fid) WHERE status = 'LIVE'`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}

// Package testutil opens a throwaway database for repo and service tests.
// Set TEST_POSTGRES_DSN to run against a real Postgres; otherwise a SQLite
// database in the test's temp dir is used. Both run with TranslateError so
// unique-constraint violations surface as gorm.ErrDuplicatedKey either way.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amacast/amacast-backend/internal/data/db"
	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

func Logger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(func() { log.Sync() })
	return log
}

// Open returns a migrated database handle isolated to this test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	}

	var (
		gdb *gorm.DB
		err error
	)
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		gdb, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		// A file-backed database per test. Immediate transactions take the
		// write lock at BEGIN, so transactions racing from separate
		// goroutines queue on the busy timeout instead of deadlocking on a
		// lock upgrade.
		dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_txlock=immediate"
		gdb, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.AutoMigrateAll(gdb); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := db.EnsureIndexes(gdb); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err != nil {
			return
		}
		sqlDB.Close()
	})
	return gdb
}

// Fid returns a unique farcaster id so tests sharing a Postgres database
// never collide on the one-live-session-per-creator constraint.
func Fid(t *testing.T) string {
	t.Helper()
	return "fid-" + uuid.NewString()
}

func SeedUser(t *testing.T, gdb *gorm.DB, fid string) *types.User {
	t.Helper()
	user := &types.User{
		Fid:      fid,
		Username: "user-" + fid,
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", fid, err)
	}
	return user
}

func SeedSession(t *testing.T, gdb *gorm.DB, creatorFid, status string) *types.Session {
	t.Helper()
	now := time.Now().UTC()
	session := &types.Session{
		ID:          uuid.New(),
		CreatorFid:  creatorFid,
		Title:       "Ask me anything",
		Description: "Testing session",
		Status:      status,
		CreatedAt:   now,
		EndsAt:      now.Add(types.SessionDuration),
	}
	if err := gdb.Create(session).Error; err != nil {
		t.Fatalf("seed session for %s: %v", creatorFid, err)
	}
	return session
}

func SeedQuestion(t *testing.T, gdb *gorm.DB, sessionID uuid.UUID, askerFid, content string) *types.Question {
	t.Helper()
	question := &types.Question{
		ID:        uuid.New(),
		SessionID: sessionID,
		AskerFid:  askerFid,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := gdb.Create(question).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return question
}

func SeedTip(t *testing.T, gdb *gorm.DB, sessionID uuid.UUID, senderFid string, amount float64) *types.Tip {
	t.Helper()
	tip := &types.Tip{
		ID:        uuid.New(),
		SessionID: sessionID,
		SenderFid: senderFid,
		Amount:    amount,
		TxHash:    "0x" + uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	if err := gdb.Create(tip).Error; err != nil {
		t.Fatalf("seed tip: %v", err)
	}
	return tip
}

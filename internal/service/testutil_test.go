package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"codedrill_backend/internal/config"
	"codedrill_backend/internal/model"
	"codedrill_backend/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	loggerOnce sync.Once
	testDBSeq  int64
)

// newTestDB opens a fresh in-memory database migrated with the full schema.
// Each call gets its own named memory cache so tests cannot see each other's
// rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loggerOnce.Do(func() { logger.InitLogger("") })

	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Problem{},
		&model.ProblemTest{},
		&model.ProblemProgress{},
		&model.Todo{},
		&model.LearningChapter{},
		&model.LearningSection{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: time.Hour,
		},
		Runner: config.RunnerConfig{
			DefaultBudgetMS: 2000,
			MaxBudgetMS:     10000,
			MaxCodeBytes:    64 * 1024,
		},
		Storage: config.StorageConfig{Type: "local", LocalPath: "uploads"},
	}
}

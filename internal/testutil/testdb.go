package testutil

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"timesheet-dashboard/internal/config"
	"timesheet-dashboard/internal/database"
)

// NewTestDB opens a SQLite database in a per-test temp directory. Tables are
// created by the repository constructors. The database is closed when the
// test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"), NewLogger())
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// NewLogger returns a logger that discards its output.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

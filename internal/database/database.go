package database

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"timesheet-dashboard/internal/config"
)

// Open connects to the configured database. SQLite DSNs get the
// _foreign_keys=on parameter so every pooled connection enforces them.
func Open(driver, dsn string, log *logrus.Logger) (*gorm.DB, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(withForeignKeys(dsn))
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: driver == config.DriverSQLite,
		Logger:                                   gormlogger.Default.LogMode(gormLogLevel(log)),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", driver, err)
	}

	log.WithField("driver", driver).Info("Database connection established")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func gormLogLevel(log *logrus.Logger) gormlogger.LogLevel {
	switch {
	case log.IsLevelEnabled(logrus.DebugLevel):
		return gormlogger.Info
	case log.IsLevelEnabled(logrus.WarnLevel):
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

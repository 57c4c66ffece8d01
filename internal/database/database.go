package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database owns the process-wide SQLite handle. The composition root creates
// exactly one and injects it into the repositories; nothing here is a lazily
// initialized global.
type Database struct {
	DB       *gorm.DB
	Notifier *Notifier
}

// Open connects to the SQLite file at dbPath and brings its schema up to the
// current version, creating it from scratch on a fresh file. A migration step
// failure falls back to a destructive reset: both tables are dropped and
// recreated empty at the current version.
func Open(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &Database{DB: db, Notifier: NewNotifier()}

	if err := d.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized at %s (schema version %d)", dbPath, CurrentSchemaVersion)

	return d, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

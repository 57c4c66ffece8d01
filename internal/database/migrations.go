package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// CurrentSchemaVersion is the schema version this build writes and expects.
const CurrentSchemaVersion = 3

// Version 1 shape, kept verbatim so upgrade steps operate on the columns they
// were written against.
const booksTableV1 = `
CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'Wishlist',
	progress REAL NOT NULL DEFAULT 0,
	rating REAL NOT NULL DEFAULT 0,
	category TEXT NOT NULL DEFAULT '',
	page_count INTEGER NOT NULL DEFAULT 0,
	cover_image_path TEXT,
	date_added INTEGER NOT NULL DEFAULT 0,
	date_finished INTEGER
)`

const readingLogsTableV1 = `
CREATE TABLE IF NOT EXISTS reading_logs (
	id TEXT PRIMARY KEY,
	book_id TEXT NOT NULL,
	book_title TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT '',
	log_type TEXT NOT NULL DEFAULT 'Thought',
	rating REAL NOT NULL DEFAULT 0,
	date TEXT NOT NULL DEFAULT '',
	FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE
)`

// Reading-tracking columns added to books in version 2. Additive and
// defaulted, so the step never rewrites existing rows.
var booksV2Columns = []string{
	"ALTER TABLE books ADD COLUMN current_page INTEGER NOT NULL DEFAULT 0",
	"ALTER TABLE books ADD COLUMN last_read_time INTEGER NOT NULL DEFAULT 0",
	"ALTER TABLE books ADD COLUMN total_reading_time_minutes INTEGER NOT NULL DEFAULT 0",
	"ALTER TABLE books ADD COLUMN reading_speed REAL NOT NULL DEFAULT 0",
	"ALTER TABLE books ADD COLUMN reading_sessions INTEGER NOT NULL DEFAULT 0",
	"ALTER TABLE books ADD COLUMN last_session_duration INTEGER NOT NULL DEFAULT 0",
	"ALTER TABLE books ADD COLUMN bookmarks TEXT NOT NULL DEFAULT ''",
	"ALTER TABLE books ADD COLUMN notes TEXT NOT NULL DEFAULT ''",
	"ALTER TABLE books ADD COLUMN is_currently_reading INTEGER NOT NULL DEFAULT 0",
	"ALTER TABLE books ADD COLUMN estimated_time_left INTEGER NOT NULL DEFAULT 0",
}

// Version 3 reading_logs shape, also used when creating a fresh database.
const readingLogsTableV3 = `
CREATE TABLE IF NOT EXISTS reading_logs (
	id TEXT PRIMARY KEY,
	book_id TEXT NOT NULL,
	book_title TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT '',
	log_type TEXT NOT NULL DEFAULT 'Thought',
	rating REAL NOT NULL DEFAULT 0,
	date TEXT NOT NULL DEFAULT '',
	is_public INTEGER NOT NULL DEFAULT 1,
	likes INTEGER NOT NULL DEFAULT 0,
	comments INTEGER NOT NULL DEFAULT 0,
	is_liked_by_user INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE
)`

const readingLogsBookIndex = `CREATE INDEX IF NOT EXISTS idx_reading_logs_book_id ON reading_logs(book_id)`

const booksCurrentTable = booksTableV1

// migrationSteps maps a target version to the step that upgrades from the
// previous version. Steps run in ascending order inside a transaction each.
var migrationSteps = map[int]func(tx *gorm.DB) error{
	2: migrateV1ToV2,
	3: migrateV2ToV3,
}

func migrateV1ToV2(tx *gorm.DB) error {
	for _, stmt := range booksV2Columns {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// migrateV2ToV3 rebuilds reading_logs under the version-3 shape: existing rows
// are copied with defaults for the new social columns, the old table is
// dropped, and the rebuilt table renamed into place.
func migrateV2ToV3(tx *gorm.DB) error {
	create := `
	CREATE TABLE reading_logs_new (
		id TEXT PRIMARY KEY,
		book_id TEXT NOT NULL,
		book_title TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		log_type TEXT NOT NULL DEFAULT 'Thought',
		rating REAL NOT NULL DEFAULT 0,
		date TEXT NOT NULL DEFAULT '',
		is_public INTEGER NOT NULL DEFAULT 1,
		likes INTEGER NOT NULL DEFAULT 0,
		comments INTEGER NOT NULL DEFAULT 0,
		is_liked_by_user INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE
	)`
	if err := tx.Exec(create).Error; err != nil {
		return err
	}

	copyRows := `
	INSERT INTO reading_logs_new (id, book_id, book_title, author, note, log_type, rating, date)
	SELECT id, book_id, book_title, author, note, log_type, rating, date FROM reading_logs`
	if err := tx.Exec(copyRows).Error; err != nil {
		return err
	}

	if err := tx.Exec(`DROP TABLE reading_logs`).Error; err != nil {
		return err
	}
	if err := tx.Exec(`ALTER TABLE reading_logs_new RENAME TO reading_logs`).Error; err != nil {
		return err
	}
	return tx.Exec(readingLogsBookIndex).Error
}

// migrate brings the database up to CurrentSchemaVersion. A fresh file gets
// the current schema directly. An older file has each pending step applied in
// ascending order; a failed step, or a version with no registered step, falls
// back to a destructive reset.
func (d *Database) migrate() error {
	if err := d.DB.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`).Error; err != nil {
		return err
	}

	version, err := d.schemaVersion()
	if err != nil {
		return err
	}

	if version == 0 {
		return d.createCurrentSchema()
	}
	if version == CurrentSchemaVersion {
		return nil
	}
	if version > CurrentSchemaVersion {
		log.Printf("Database schema version %d is newer than supported %d, resetting", version, CurrentSchemaVersion)
		return d.reset()
	}

	for next := version + 1; next <= CurrentSchemaVersion; next++ {
		step, ok := migrationSteps[next]
		if !ok {
			log.Printf("No migration step for schema version %d, resetting", next)
			return d.reset()
		}

		err := d.DB.Transaction(func(tx *gorm.DB) error {
			if err := step(tx); err != nil {
				return err
			}
			return setSchemaVersion(tx, next)
		})
		if err != nil {
			log.Printf("Migration to schema version %d failed (%v), resetting", next, err)
			return d.reset()
		}

		log.Printf("Migrated database schema to version %d", next)
	}

	return nil
}

func (d *Database) schemaVersion() (int, error) {
	var version int
	row := d.DB.Raw(`SELECT version FROM schema_version LIMIT 1`).Row()
	if err := row.Scan(&version); err != nil {
		// No row recorded yet: fresh database.
		return 0, nil
	}
	return version, nil
}

func setSchemaVersion(tx *gorm.DB, version int) error {
	if err := tx.Exec(`DELETE FROM schema_version`).Error; err != nil {
		return err
	}
	return tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, version).Error
}

func (d *Database) createCurrentSchema() error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(booksCurrentTable).Error; err != nil {
			return err
		}
		for _, stmt := range booksV2Columns {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec(readingLogsTableV3).Error; err != nil {
			return err
		}
		if err := tx.Exec(readingLogsBookIndex).Error; err != nil {
			return err
		}
		return setSchemaVersion(tx, CurrentSchemaVersion)
	})
}

// reset is the destructive fallback: both tables are dropped and recreated
// empty at the current version. Data loss here is accepted by design.
func (d *Database) reset() error {
	err := d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DROP TABLE IF EXISTS reading_logs`).Error; err != nil {
			return err
		}
		return tx.Exec(`DROP TABLE IF EXISTS books`).Error
	})
	if err != nil {
		return fmt.Errorf("failed to drop tables during reset: %w", err)
	}
	return d.createCurrentSchema()
}

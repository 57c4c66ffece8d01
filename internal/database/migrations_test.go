package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lydia-karungi/booknest/internal/entities"
)

func testDBPath(t *testing.T) string {
	path := "./test_migrations_" + t.Name() + ".db"
	t.Cleanup(func() { os.Remove(path) })
	return path
}

// seedOldDatabase writes a database file at the given schema version, without
// going through Open.
func seedOldDatabase(t *testing.T, path string, version int, seed func(db *gorm.DB)) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(booksTableV1).Error)
	require.NoError(t, db.Exec(readingLogsTableV1).Error)
	if version >= 2 {
		for _, stmt := range booksV2Columns {
			require.NoError(t, db.Exec(stmt).Error)
		}
	}

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, version).Error)

	if seed != nil {
		seed(db)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestOpen_FreshDatabase(t *testing.T) {
	path := testDBPath(t)

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	var version int
	require.NoError(t, d.DB.Raw(`SELECT version FROM schema_version`).Row().Scan(&version))
	assert.Equal(t, CurrentSchemaVersion, version)

	// Current shape is usable through the entity mappings.
	book := entities.Book{ID: "b1", Title: "Educated", Author: "Tara Westover", Status: entities.StatusWishlist}
	require.NoError(t, d.DB.Create(&book).Error)

	logEntry := entities.ReadingLog{ID: "l1", BookID: "b1", LogType: entities.LogTypeThought, IsPublic: true}
	require.NoError(t, d.DB.Create(&logEntry).Error)
}

func TestMigrate_V1ToCurrent_PreservesBooks(t *testing.T) {
	path := testDBPath(t)

	seedOldDatabase(t, path, 1, func(db *gorm.DB) {
		require.NoError(t, db.Exec(
			`INSERT INTO books (id, title, author, status, progress, rating, category, page_count, date_added)
			 VALUES ('b1', 'Educated', 'Tara Westover', 'Reading', 0.5, 4.0, 'Memoir', 334, 1700000000000)`,
		).Error)
	})

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	var version int
	require.NoError(t, d.DB.Raw(`SELECT version FROM schema_version`).Row().Scan(&version))
	assert.Equal(t, CurrentSchemaVersion, version)

	// Original columns unchanged, new columns present and defaulted.
	var book entities.Book
	require.NoError(t, d.DB.Where("id = ?", "b1").First(&book).Error)
	assert.Equal(t, "Educated", book.Title)
	assert.Equal(t, "Tara Westover", book.Author)
	assert.Equal(t, entities.StatusReading, book.Status)
	assert.InDelta(t, 0.5, book.Progress, 1e-9)
	assert.Equal(t, 334, book.PageCount)
	assert.Equal(t, 0, book.CurrentPage)
	assert.False(t, book.IsCurrentlyReading)
	assert.Equal(t, 0, book.TotalReadingTimeMinutes)
	assert.Zero(t, book.ReadingSpeed)
	assert.Equal(t, 0, book.EstimatedTimeLeft)
}

func TestMigrate_V2ToV3_CopiesLogsWithDefaults(t *testing.T) {
	path := testDBPath(t)

	seedOldDatabase(t, path, 2, func(db *gorm.DB) {
		require.NoError(t, db.Exec(
			`INSERT INTO books (id, title, author, status, category) VALUES ('b1', 'Dune', 'Frank Herbert', 'Reading', 'SF')`,
		).Error)
		require.NoError(t, db.Exec(
			`INSERT INTO reading_logs (id, book_id, book_title, author, note, log_type, rating, date)
			 VALUES ('l1', 'b1', 'Dune', 'Frank Herbert', 'Fear is the mind-killer.', 'Quote', 0, '2024-01-15 09:30')`,
		).Error)
	})

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	var logEntry entities.ReadingLog
	require.NoError(t, d.DB.Where("id = ?", "l1").First(&logEntry).Error)
	assert.Equal(t, "b1", logEntry.BookID)
	assert.Equal(t, "Fear is the mind-killer.", logEntry.Note)
	assert.Equal(t, entities.LogTypeQuote, logEntry.LogType)
	assert.Equal(t, "2024-01-15 09:30", logEntry.Date)
	// New social columns defaulted.
	assert.True(t, logEntry.IsPublic)
	assert.Equal(t, 0, logEntry.Likes)
	assert.Equal(t, 0, logEntry.Comments)
	assert.False(t, logEntry.IsLikedByUser)

	// The rebuilt table keeps the foreign key index.
	var indexCount int64
	require.NoError(t, d.DB.Raw(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_reading_logs_book_id'`,
	).Row().Scan(&indexCount))
	assert.Equal(t, int64(1), indexCount)
}

func TestMigrate_FailedStepFallsBackToReset(t *testing.T) {
	path := testDBPath(t)

	// Version 1 recorded but the books table is missing entirely, so the 1->2
	// ALTER steps cannot apply.
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO schema_version (version) VALUES (1)`).Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	// Reset produced empty tables at the current version.
	var version int
	require.NoError(t, d.DB.Raw(`SELECT version FROM schema_version`).Row().Scan(&version))
	assert.Equal(t, CurrentSchemaVersion, version)

	var count int64
	require.NoError(t, d.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMigrate_NewerVersionResets(t *testing.T) {
	path := testDBPath(t)

	seedOldDatabase(t, path, 99, func(db *gorm.DB) {
		require.NoError(t, db.Exec(
			`INSERT INTO books (id, title, author, status, category) VALUES ('b1', 'Old', 'Author', 'Reading', '')`,
		).Error)
	})

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	var version int
	require.NoError(t, d.DB.Raw(`SELECT version FROM schema_version`).Row().Scan(&version))
	assert.Equal(t, CurrentSchemaVersion, version)

	// Destructive fallback: the old row is gone.
	var count int64
	require.NoError(t, d.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOpen_Reopen_NoMigrationNeeded(t *testing.T) {
	path := testDBPath(t)

	d, err := Open(path)
	require.NoError(t, err)
	book := entities.Book{ID: "b1", Title: "Kept", Author: "A", Status: entities.StatusWishlist}
	require.NoError(t, d.DB.Create(&book).Error)
	require.NoError(t, d.Close())

	d, err = Open(path)
	require.NoError(t, err)
	defer d.Close()

	var count int64
	require.NoError(t, d.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

package books

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lydia-karungi/booknest/internal/database"
	"github.com/lydia-karungi/booknest/internal/entities"
)

func setupTestDB(t *testing.T) (*database.Database, *Repository, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := database.Open(dbPath)
	require.NoError(t, err)

	repo := NewRepository(db.DB, db.Notifier)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, repo, cleanup
}

func createTestBook(t *testing.T, repo *Repository, id, title string, status entities.BookStatus) *entities.Book {
	book := &entities.Book{
		ID:        id,
		Title:     title,
		Author:    "Test Author",
		Status:    status,
		Category:  "Fiction",
		DateAdded: time.Now().UnixMilli(),
	}
	require.NoError(t, repo.Save(book))
	return book
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, repo, "b1", "Educated", entities.StatusWishlist)

	book, err := repo.GetByID("b1")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, "Educated", book.Title)
	assert.Equal(t, entities.StatusWishlist, book.Status)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.GetByID("missing")
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestRepository_Save_ReplacesByIdentity(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, "b1", "Draft Title", entities.StatusWishlist)

	book.Title = "Final Title"
	book.Status = entities.StatusReading
	require.NoError(t, repo.Save(book))

	saved, err := repo.GetByID("b1")
	require.NoError(t, err)
	assert.Equal(t, "Final Title", saved.Title)
	assert.Equal(t, entities.StatusReading, saved.Status)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_GetAll_NewestFirst(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	older := &entities.Book{ID: "b1", Title: "Older", Author: "A", Status: entities.StatusWishlist, DateAdded: 1000}
	newer := &entities.Book{ID: "b2", Title: "Newer", Author: "A", Status: entities.StatusWishlist, DateAdded: 2000}
	require.NoError(t, repo.Save(older))
	require.NoError(t, repo.Save(newer))

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Newer", all[0].Title)
	assert.Equal(t, "Older", all[1].Title)
}

func TestRepository_GetByStatus(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, repo, "b1", "Reading One", entities.StatusReading)
	createTestBook(t, repo, "b2", "Wishlist One", entities.StatusWishlist)
	createTestBook(t, repo, "b3", "Reading Two", entities.StatusReading)

	reading, err := repo.GetByStatus(entities.StatusReading)
	require.NoError(t, err)
	assert.Len(t, reading, 2)

	finished, err := repo.GetByStatus(entities.StatusFinished)
	require.NoError(t, err)
	assert.Empty(t, finished)
}

func TestRepository_Delete_CascadesLogs(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, repo, "b1", "Doomed", entities.StatusReading)

	for _, id := range []string{"l1", "l2"} {
		logEntry := entities.ReadingLog{
			ID: id, BookID: "b1", BookTitle: "Doomed", Author: "Test Author",
			LogType: entities.LogTypeThought, Date: "2024-01-01 10:00",
		}
		require.NoError(t, db.DB.Create(&logEntry).Error)
	}

	require.NoError(t, repo.Delete("b1"))

	book, err := repo.GetByID("b1")
	require.NoError(t, err)
	assert.Nil(t, book)

	var logCount int64
	require.NoError(t, db.DB.Model(&entities.ReadingLog{}).Where("book_id = ?", "b1").Count(&logCount).Error)
	assert.Zero(t, logCount)
}

func TestRepository_UpdateFields(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, repo, "b1", "Tracked", entities.StatusReading)

	err := repo.UpdateFields("b1", map[string]any{
		"reading_speed":       42.5,
		"estimated_time_left": 90,
	})
	require.NoError(t, err)

	book, err := repo.GetByID("b1")
	require.NoError(t, err)
	assert.InDelta(t, 42.5, book.ReadingSpeed, 1e-9)
	assert.Equal(t, 90, book.EstimatedTimeLeft)
	assert.Equal(t, "Tracked", book.Title)
}

func TestRepository_Counts(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, repo, "b1", "Done One", entities.StatusFinished)
	createTestBook(t, repo, "b2", "Done Two", entities.StatusFinished)
	createTestBook(t, repo, "b3", "Ongoing", entities.StatusReading)

	finished, err := repo.CountFinished()
	require.NoError(t, err)
	assert.Equal(t, int64(2), finished)

	reading, err := repo.CountReading()
	require.NoError(t, err)
	assert.Equal(t, int64(1), reading)
}

func TestRepository_WatchAll_ObservesCommits(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watch := repo.WatchAll(ctx)

	// Initial emission on an empty library.
	initial := <-watch
	assert.Empty(t, initial)

	createTestBook(t, repo, "b1", "Observed", entities.StatusWishlist)

	select {
	case updated := <-watch:
		require.Len(t, updated, 1)
		assert.Equal(t, "Observed", updated[0].Title)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the watcher to observe the committed write")
	}
}

func TestRepository_WatchByStatus_FiltersBucket(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, repo, "b1", "Queued", entities.StatusWishlist)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watch := repo.WatchByStatus(ctx, entities.StatusReading)

	// Initial emission: the wishlist book is outside the watched bucket.
	initial := <-watch
	assert.Empty(t, initial)

	createTestBook(t, repo, "b2", "Ongoing", entities.StatusReading)

	select {
	case updated := <-watch:
		require.Len(t, updated, 1)
		assert.Equal(t, "Ongoing", updated[0].Title)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the watcher to observe the committed write")
	}
}

package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lydia-karungi/booknest/internal/entities"
	"github.com/lydia-karungi/booknest/internal/repository"
)

func recordLog(t *testing.T, repo *repository.Repository, bookID, note string, logType entities.LogType, isPublic bool) *entities.ReadingLog {
	t.Helper()
	logEntry, err := repo.RecordLog(bookID, note, logType, 0, isPublic)
	require.NoError(t, err)
	return logEntry
}

func TestLogsController_CreateLog(t *testing.T) {
	t.Run("records a journal entry", func(t *testing.T) {
		repo, router, cleanup := setupTestRouter(t)
		defer cleanup()

		book := addBook(t, repo, "Dune", entities.StatusReading)

		w := performRequest(router, "POST", "/api/logs",
			`{"book_id": "`+book.ID+`", "note": "Great chapter.", "log_type": "Thought"}`)

		require.Equal(t, http.StatusCreated, w.Code)

		var logEntry entities.ReadingLog
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logEntry))
		assert.NotEmpty(t, logEntry.ID)
		assert.Equal(t, "Dune", logEntry.BookTitle)
		assert.True(t, logEntry.IsPublic, "entries default to public")
	})

	t.Run("honours an explicit private flag", func(t *testing.T) {
		repo, router, cleanup := setupTestRouter(t)
		defer cleanup()

		book := addBook(t, repo, "Dune", entities.StatusReading)

		w := performRequest(router, "POST", "/api/logs",
			`{"book_id": "`+book.ID+`", "note": "x", "log_type": "Quote", "is_public": false}`)

		require.Equal(t, http.StatusCreated, w.Code)

		var logEntry entities.ReadingLog
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logEntry))
		assert.False(t, logEntry.IsPublic)
	})

	t.Run("rejects an entry for a missing book", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		w := performRequest(router, "POST", "/api/logs",
			`{"book_id": "missing", "note": "x", "log_type": "Thought"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects an unknown log type", func(t *testing.T) {
		repo, router, cleanup := setupTestRouter(t)
		defer cleanup()

		book := addBook(t, repo, "Dune", entities.StatusReading)

		w := performRequest(router, "POST", "/api/logs",
			`{"book_id": "`+book.ID+`", "note": "x", "log_type": "RANT"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogsController_UpdateLog(t *testing.T) {
	t.Run("edits an entry in place", func(t *testing.T) {
		repo, router, cleanup := setupTestRouter(t)
		defer cleanup()

		book := addBook(t, repo, "Dune", entities.StatusReading)
		logEntry := recordLog(t, repo, book.ID, "first draft", entities.LogTypeThought, true)

		w := performRequest(router, "PUT", "/api/logs/"+logEntry.ID,
			`{"note": "second thoughts", "is_public": false}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got entities.ReadingLog
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, logEntry.ID, got.ID)
		assert.Equal(t, "second thoughts", got.Note)
		assert.False(t, got.IsPublic)
		assert.Equal(t, logEntry.Date, got.Date, "the original date survives")
	})

	t.Run("rejects an unknown log type", func(t *testing.T) {
		repo, router, cleanup := setupTestRouter(t)
		defer cleanup()

		book := addBook(t, repo, "Dune", entities.StatusReading)
		logEntry := recordLog(t, repo, book.ID, "note", entities.LogTypeThought, true)

		w := performRequest(router, "PUT", "/api/logs/"+logEntry.ID, `{"log_type": "RANT"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("404s for a missing entry", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		w := performRequest(router, "PUT", "/api/logs/missing", `{"note": "x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLogsController_GetLogs(t *testing.T) {
	repo, router, cleanup := setupTestRouter(t)
	defer cleanup()

	book := addBook(t, repo, "Dune", entities.StatusReading)
	recordLog(t, repo, book.ID, "public thought", entities.LogTypeThought, true)
	recordLog(t, repo, book.ID, "private quote", entities.LogTypeQuote, false)

	var response struct {
		Count int                   `json:"count"`
		Logs  []entities.ReadingLog `json:"logs"`
	}

	w := performRequest(router, "GET", "/api/logs", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)

	w = performRequest(router, "GET", "/api/logs?public=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.Count)
	assert.Equal(t, "public thought", response.Logs[0].Note)

	w = performRequest(router, "GET", "/api/logs?public=false&type=Quote", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.Count)
	assert.Equal(t, "private quote", response.Logs[0].Note)

	w = performRequest(router, "GET", "/api/logs?type=RANT", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogsController_GetRecentLogs(t *testing.T) {
	repo, router, cleanup := setupTestRouter(t)
	defer cleanup()

	book := addBook(t, repo, "Dune", entities.StatusReading)
	for i := 0; i < 5; i++ {
		recordLog(t, repo, book.ID, "entry", entities.LogTypeThought, true)
	}

	w := performRequest(router, "GET", "/api/logs/recent?limit=3", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 3, response.Count)
}

func TestLogsController_DeleteLog(t *testing.T) {
	repo, router, cleanup := setupTestRouter(t)
	defer cleanup()

	book := addBook(t, repo, "Dune", entities.StatusReading)
	logEntry := recordLog(t, repo, book.ID, "note", entities.LogTypeThought, true)

	w := performRequest(router, "DELETE", "/api/logs/"+logEntry.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, "DELETE", "/api/logs/"+logEntry.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogsController_LikeUnlike(t *testing.T) {
	repo, router, cleanup := setupTestRouter(t)
	defer cleanup()

	book := addBook(t, repo, "Dune", entities.StatusReading)
	logEntry := recordLog(t, repo, book.ID, "note", entities.LogTypeThought, true)

	var got entities.ReadingLog

	w := performRequest(router, "POST", "/api/logs/"+logEntry.ID+"/like", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Likes)
	assert.True(t, got.IsLikedByUser)

	// A second like is a no-op.
	w = performRequest(router, "POST", "/api/logs/"+logEntry.ID+"/like", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Likes)

	w = performRequest(router, "DELETE", "/api/logs/"+logEntry.ID+"/like", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 0, got.Likes)
	assert.False(t, got.IsLikedByUser)

	w = performRequest(router, "POST", "/api/logs/missing/like", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogsController_ShareLog(t *testing.T) {
	repo, router, cleanup := setupTestRouter(t)
	defer cleanup()

	book := addBook(t, repo, "Dune", entities.StatusReading)
	logEntry := recordLog(t, repo, book.ID, "Fear is the mind-killer.", entities.LogTypeQuote, true)

	w := performRequest(router, "GET", "/api/logs/"+logEntry.ID+"/share", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		LogID string `json:"log_id"`
		Text  string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, logEntry.ID, response.LogID)
	assert.Contains(t, response.Text, "\"Fear is the mind-killer.\"")
	assert.Contains(t, response.Text, "- Dune by Author")
	assert.Contains(t, response.Text, "Shared from BookNest")

	w = performRequest(router, "GET", "/api/logs/missing/share", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogsController_GetLogStats(t *testing.T) {
	repo, router, cleanup := setupTestRouter(t)
	defer cleanup()

	book := addBook(t, repo, "Dune", entities.StatusReading)
	recordLog(t, repo, book.ID, "a", entities.LogTypeThought, true)
	recordLog(t, repo, book.ID, "b", entities.LogTypeQuote, false)

	w := performRequest(router, "GET", "/api/logs/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Total  int64            `json:"total"`
		Public int64            `json:"public"`
		ByType map[string]int64 `json:"by_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Public)
	assert.Equal(t, int64(1), stats.ByType["Quote"])
}

package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lydia-karungi/booknest/internal/entities"
)

type fakeBookSource struct {
	mu      sync.Mutex
	reading []entities.Book
	saved   []*entities.Book
}

func (f *fakeBookSource) BooksByStatus(status entities.BookStatus) ([]entities.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status != entities.StatusReading {
		return nil, nil
	}
	return append([]entities.Book(nil), f.reading...), nil
}

func (f *fakeBookSource) AddBook(book *entities.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, book)
	return nil
}

func (f *fakeBookSource) savedBooks() []*entities.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entities.Book(nil), f.saved...)
}

func TestStatsRollup_RecomputesStaleEstimates(t *testing.T) {
	source := &fakeBookSource{
		reading: []entities.Book{
			{
				ID: "b1", Status: entities.StatusReading,
				CurrentPage: 100, PageCount: 400, TotalReadingTimeMinutes: 120,
				// Stale values from before the page count was known.
				ReadingSpeed: 0, EstimatedTimeLeft: 0,
			},
		},
	}

	s := NewStatsRollupScheduler(source, "*/30 * * * *", true)
	s.runRollup()

	saved := source.savedBooks()
	require.Len(t, saved, 1)
	assert.InDelta(t, 50.0, saved[0].ReadingSpeed, 1e-9)
	assert.Equal(t, 360, saved[0].EstimatedTimeLeft)
}

func TestStatsRollup_SkipsBooksAlreadyCurrent(t *testing.T) {
	source := &fakeBookSource{
		reading: []entities.Book{
			{
				ID: "b1", Status: entities.StatusReading,
				CurrentPage: 100, PageCount: 400, TotalReadingTimeMinutes: 120,
				ReadingSpeed: 50.0, EstimatedTimeLeft: 360,
			},
		},
	}

	s := NewStatsRollupScheduler(source, "*/30 * * * *", true)
	s.runRollup()

	assert.Empty(t, source.savedBooks(), "current estimates should not be re-saved")
}

func TestStatsRollup_DisabledDoesNotStart(t *testing.T) {
	s := NewStatsRollupScheduler(&fakeBookSource{}, "*/30 * * * *", false)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestStatsRollup_StartStop(t *testing.T) {
	s := NewStatsRollupScheduler(&fakeBookSource{}, "*/30 * * * *", true)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NotNil(t, s.GetNextRunTime())
	assert.True(t, s.GetNextRunTime().After(time.Now()))

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestStatsRollup_InvalidSchedule(t *testing.T) {
	s := NewStatsRollupScheduler(&fakeBookSource{}, "not a schedule", true)

	err := s.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

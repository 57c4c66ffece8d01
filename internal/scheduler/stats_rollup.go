package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lydia-karungi/booknest/internal/entities"
	"github.com/lydia-karungi/booknest/internal/progress"
)

// BookSource is the repository slice the rollup needs.
type BookSource interface {
	BooksByStatus(status entities.BookStatus) ([]entities.Book, error)
	AddBook(book *entities.Book) error
}

// StatsRollupScheduler periodically recomputes the derived reading-speed and
// time-to-finish estimates for books in progress. Page updates and session
// logging keep these fresh on the write path; the rollup catches books whose
// page count arrived later (e.g. via catalog enrichment).
type StatsRollupScheduler struct {
	books    BookSource
	schedule string
	enabled  bool

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewStatsRollupScheduler creates a new scheduler instance
func NewStatsRollupScheduler(books BookSource, schedule string, enabled bool) *StatsRollupScheduler {
	return &StatsRollupScheduler{
		books:    books,
		schedule: schedule,
		enabled:  enabled,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if the rollup is enabled
func (s *StatsRollupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.enabled {
		log.Printf("Stats rollup scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runRollup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule stats rollup: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Stats rollup scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *StatsRollupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Stats rollup scheduler: stopped")
}

// RunNow triggers an immediate rollup
func (s *StatsRollupScheduler) RunNow() {
	go s.runRollup()
}

// IsRunning returns whether the scheduler is active
func (s *StatsRollupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next rollup will occur
func (s *StatsRollupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runRollup recomputes the estimates for every book currently being read
func (s *StatsRollupScheduler) runRollup() {
	log.Printf("Stats rollup: starting")
	startTime := time.Now()

	reading, err := s.books.BooksByStatus(entities.StatusReading)
	if err != nil {
		log.Printf("Stats rollup: failed to list reading books: %v", err)
		return
	}

	var updated int
	for i := range reading {
		book := &reading[i]

		speed := progress.Speed(book.CurrentPage, book.TotalReadingTimeMinutes)
		estimate := progress.EstimateMinutesLeft(
			progress.PagesRemaining(book.PageCount, book.CurrentPage), speed)

		if speed == book.ReadingSpeed && estimate == book.EstimatedTimeLeft {
			continue
		}

		book.ReadingSpeed = speed
		book.EstimatedTimeLeft = estimate
		if err := s.books.AddBook(book); err != nil {
			log.Printf("Stats rollup: failed to update book %s: %v", book.ID, err)
			continue
		}
		updated++
	}

	log.Printf("Stats rollup: updated %d of %d reading books in %v",
		updated, len(reading), time.Since(startTime))
}

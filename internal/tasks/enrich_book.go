package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/lydia-karungi/booknest/internal/catalog"
	"github.com/lydia-karungi/booknest/internal/entities"
)

// Library is the slice of the repository the enrichment tasks need.
type Library interface {
	GetBook(id string) (*entities.Book, error)
	AllBooks() ([]entities.Book, error)
	AddBook(book *entities.Book) error
	SearchOnline(ctx context.Context, query string, maxResults int) ([]catalog.Volume, error)
}

// EnrichBookTask fills in a book's missing catalog metadata (page count,
// cover, category, rating) from the online catalog.
type EnrichBookTask struct {
	BookID string `json:"book_id"`
}

// Config returns the queue configuration for book enrichment tasks.
func (t EnrichBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichBookProcessor creates a processor function for EnrichBookTask.
func EnrichBookProcessor(library Library) backlite.QueueProcessor[EnrichBookTask] {
	return func(ctx context.Context, task EnrichBookTask) error {
		if library == nil {
			return fmt.Errorf("library not configured")
		}

		book, err := library.GetBook(task.BookID)
		if err != nil {
			return fmt.Errorf("load book %s: %w", task.BookID, err)
		}
		if book == nil {
			// Deleted since the task was enqueued; nothing to enrich.
			log.Printf("[TASK] Book %s no longer exists, skipping enrichment", task.BookID)
			return nil
		}
		if !needsEnrichment(book) {
			log.Printf("[TASK] Book %s (%s): no metadata updates needed", book.ID, book.Title)
			return nil
		}

		hits, err := library.SearchOnline(ctx, book.Title+" "+book.Author, 5)
		if err != nil {
			return fmt.Errorf("catalog lookup for book %s: %w", task.BookID, err)
		}
		if len(hits) == 0 {
			log.Printf("[TASK] Book %s (%s): no catalog match found", book.ID, book.Title)
			return nil
		}

		updated := applyVolume(book, hits[0])
		if len(updated) == 0 {
			log.Printf("[TASK] Book %s (%s): catalog match added nothing new", book.ID, book.Title)
			return nil
		}

		if err := library.AddBook(book); err != nil {
			return fmt.Errorf("save enriched book %s: %w", task.BookID, err)
		}

		log.Printf("[TASK] Enriched book %s (%s): updated %v", book.ID, book.Title, updated)
		return nil
	}
}

// NewEnrichBookQueue creates a backlite queue for book enrichment tasks.
func NewEnrichBookQueue(library Library) backlite.Queue {
	return backlite.NewQueue(EnrichBookProcessor(library))
}

func needsEnrichment(book *entities.Book) bool {
	return book.PageCount == 0 ||
		book.CoverImagePath == nil ||
		book.Category == "" ||
		book.Rating == 0
}

// applyVolume copies catalog fields the book is missing and returns the
// names of the fields it changed. Existing values are never overwritten.
func applyVolume(book *entities.Book, hit catalog.Volume) []string {
	var updated []string

	if book.PageCount == 0 && hit.PageCount > 0 {
		book.PageCount = hit.PageCount
		updated = append(updated, "page_count")
	}
	if book.CoverImagePath == nil && hit.ThumbnailURL != "" {
		thumb := hit.ThumbnailURL
		book.CoverImagePath = &thumb
		updated = append(updated, "cover_image_path")
	}
	if book.Category == "" && len(hit.Categories) > 0 {
		book.Category = hit.Categories[0]
		updated = append(updated, "category")
	}
	if book.Rating == 0 && hit.AverageRating > 0 {
		book.Rating = hit.AverageRating
		updated = append(updated, "rating")
	}
	return updated
}

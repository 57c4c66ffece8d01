package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// EnrichAllBooksTask re-enqueues enrichment for every book still missing
// catalog metadata.
type EnrichAllBooksTask struct{}

// Config returns the queue configuration for bulk enrichment tasks.
func (t EnrichAllBooksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_all_books",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichAllBooksProcessor creates a processor function for EnrichAllBooksTask.
// It fans out one EnrichBookTask per book that still needs metadata, so each
// lookup gets its own retry budget.
func EnrichAllBooksProcessor(library Library, client *Client) backlite.QueueProcessor[EnrichAllBooksTask] {
	return func(ctx context.Context, task EnrichAllBooksTask) error {
		if library == nil {
			return fmt.Errorf("library not configured")
		}

		books, err := library.AllBooks()
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}

		var enqueued int
		for i := range books {
			if !needsEnrichment(&books[i]) {
				continue
			}
			if _, err := client.Add(EnrichBookTask{BookID: books[i].ID}).Save(); err != nil {
				return fmt.Errorf("enqueue enrichment for book %s: %w", books[i].ID, err)
			}
			enqueued++
		}

		log.Printf("[TASK] Bulk enrichment: %d of %d books queued", enqueued, len(books))
		return nil
	}
}

// NewEnrichAllBooksQueue creates a backlite queue for bulk enrichment tasks.
func NewEnrichAllBooksQueue(library Library, client *Client) backlite.Queue {
	return backlite.NewQueue(EnrichAllBooksProcessor(library, client))
}

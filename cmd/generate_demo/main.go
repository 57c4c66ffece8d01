// Command generate_demo creates a demo database with a sample library of
// public domain books, reading progress and journal entries.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/lydia-karungi/booknest/internal/database"
	"github.com/lydia-karungi/booknest/internal/database/books"
	"github.com/lydia-karungi/booknest/internal/database/logs"
	"github.com/lydia-karungi/booknest/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	bookStore := books.NewRepository(db.DB, db.Notifier)
	logStore := logs.NewRepository(db.DB, db.Notifier)

	for _, seed := range demoLibrary() {
		if err := bookStore.Save(&seed.book); err != nil {
			log.Printf("Failed to save book %s: %v", seed.book.Title, err)
			continue
		}
		log.Printf("Saved: %s by %s (%d logs)", seed.book.Title, seed.book.Author, len(seed.logEntries))

		for i := range seed.logEntries {
			entry := &seed.logEntries[i]
			entry.ID = uuid.NewString()
			entry.BookID = seed.book.ID
			entry.BookTitle = seed.book.Title
			entry.Author = seed.book.Author
			if err := logStore.Save(entry); err != nil {
				log.Printf("Failed to save log for %s: %v", seed.book.Title, err)
			}
		}
	}

	log.Println("Demo database generated successfully!")
}

type bookSeed struct {
	book       entities.Book
	logEntries []entities.ReadingLog
}

func demoLibrary() []bookSeed {
	now := time.Now()
	daysAgo := func(days int) int64 {
		return now.AddDate(0, 0, -days).UnixMilli()
	}
	logDate := func(days int) string {
		return now.AddDate(0, 0, -days).Format(entities.LogDateFormat)
	}
	finished := daysAgo(12)

	return []bookSeed{
		{
			book: entities.Book{
				ID:                      uuid.NewString(),
				Title:                   "Pride and Prejudice",
				Author:                  "Jane Austen",
				Status:                  entities.StatusFinished,
				Progress:                1.0,
				Rating:                  4.5,
				Category:                "Classic",
				PageCount:               432,
				DateAdded:               daysAgo(60),
				DateFinished:            &finished,
				CurrentPage:             432,
				TotalReadingTimeMinutes: 840,
				ReadingSessions:         14,
			},
			logEntries: []entities.ReadingLog{
				{
					Note:     "It is a truth universally acknowledged, that a single man in possession of a good fortune, must be in want of a wife.",
					LogType:  entities.LogTypeQuote,
					Date:     logDate(40),
					IsPublic: true,
					Likes:    3,
				},
				{
					Note:     "A sharp and funny study of first impressions. The slow turn of Elizabeth's judgement is the whole book.",
					LogType:  entities.LogTypeReview,
					Rating:   4.5,
					Date:     logDate(12),
					IsPublic: true,
					Likes:    5,
				},
			},
		},
		{
			book: entities.Book{
				ID:                      uuid.NewString(),
				Title:                   "Moby-Dick",
				Author:                  "Herman Melville",
				Status:                  entities.StatusReading,
				Progress:                0.35,
				Category:                "Adventure",
				PageCount:               635,
				DateAdded:               daysAgo(30),
				CurrentPage:             222,
				LastReadTime:            daysAgo(1),
				TotalReadingTimeMinutes: 420,
				ReadingSessions:         7,
				LastSessionDuration:     55,
				ReadingSpeed:            31.7,
				EstimatedTimeLeft:       780,
			},
			logEntries: []entities.ReadingLog{
				{
					Note:     "Call me Ishmael.",
					LogType:  entities.LogTypeQuote,
					Date:     logDate(25),
					IsPublic: true,
					Likes:    2,
				},
				{
					Note:     "The whaling chapters are slower than expected but the rhythm grows on you.",
					LogType:  entities.LogTypeThought,
					Date:     logDate(3),
					IsPublic: false,
				},
				{
					Note:     "Reached the Pequod's departure, a third of the way in.",
					LogType:  entities.LogTypeProgress,
					Date:     logDate(1),
					IsPublic: true,
				},
			},
		},
		{
			book: entities.Book{
				ID:        uuid.NewString(),
				Title:     "The Time Machine",
				Author:    "H. G. Wells",
				Status:    entities.StatusWishlist,
				Category:  "Science Fiction",
				PageCount: 118,
				DateAdded: daysAgo(5),
			},
		},
	}
}

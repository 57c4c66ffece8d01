// Package share renders reading-log entries as ready-to-post text. Each log
// type has its own template so a shared quote reads differently from a
// shared review.
package share

import (
	"fmt"

	"github.com/lydia-karungi/booknest/internal/entities"
)

// Text formats a reading log for sharing outside the app.
func Text(logEntry *entities.ReadingLog) string {
	switch logEntry.LogType {
	case entities.LogTypeQuote:
		return fmt.Sprintf("\"%s\"\n\n- %s by %s\n\nShared from BookNest 📚",
			logEntry.Note, logEntry.BookTitle, logEntry.Author)
	case entities.LogTypeReview:
		return fmt.Sprintf("📚 %s by %s\n\n⭐ %.1f/5\n\n%s\n\nShared from BookNest",
			logEntry.BookTitle, logEntry.Author, logEntry.Rating, logEntry.Note)
	case entities.LogTypeThought:
		return fmt.Sprintf("💭 My thoughts on %s:\n\n%s\n\nShared from BookNest 📚",
			logEntry.BookTitle, logEntry.Note)
	default:
		return fmt.Sprintf("📊 Reading %s:\n\n%s\n\nShared from BookNest 📚",
			logEntry.BookTitle, logEntry.Note)
	}
}

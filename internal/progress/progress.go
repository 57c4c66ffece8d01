// Package progress holds the pure derived-state calculations for reading
// tracking: progress fractions from page counts, status transitions, and
// aggregate statistics. Nothing here performs I/O.
package progress

import (
	"github.com/lydia-karungi/booknest/internal/entities"
)

// FromPages computes the progress fraction for a page position. When
// totalPages is zero or negative there is nothing to divide by, so the
// previously stored progress is returned unchanged.
func FromPages(currentPage, totalPages int, prior float64) float64 {
	if totalPages <= 0 {
		return prior
	}
	return Clamp(float64(currentPage)/float64(totalPages), 0, 1)
}

// NextStatus derives the lifecycle status implied by a progress value.
// Full progress always means Finished. Partial progress moves a book into
// Reading unless it is already Finished: progress writes never reopen a
// finished book, only an explicit status update does.
func NextStatus(progress float64, current entities.BookStatus) entities.BookStatus {
	switch {
	case progress >= 1.0:
		return entities.StatusFinished
	case progress > 0 && current != entities.StatusFinished:
		return entities.StatusReading
	default:
		return current
	}
}

// PagesRemaining returns the non-negative number of unread pages.
func PagesRemaining(pageCount, currentPage int) int {
	if remaining := pageCount - currentPage; remaining > 0 {
		return remaining
	}
	return 0
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Speed returns reading speed in pages per hour given cumulative pages read
// and cumulative reading minutes. Zero minutes yields zero speed.
func Speed(pagesRead, minutes int) float64 {
	if minutes <= 0 || pagesRead <= 0 {
		return 0
	}
	return float64(pagesRead) / (float64(minutes) / 60.0)
}

// EstimateMinutesLeft estimates the minutes needed to finish the remaining
// pages at the given speed (pages per hour). Unknown speed yields zero.
func EstimateMinutesLeft(pagesRemaining int, speed float64) int {
	if pagesRemaining <= 0 || speed <= 0 {
		return 0
	}
	return int(float64(pagesRemaining) / speed * 60.0)
}

// Stats is a point-in-time aggregate over a book collection.
type Stats struct {
	TotalBooks              int     `json:"total_books"`
	BooksReading            int     `json:"books_reading"`
	BooksFinished           int     `json:"books_finished"`
	BooksWishlist           int     `json:"books_wishlist"`
	AverageProgressPercent  int     `json:"average_progress_percent"`
	TotalReadingTimeMinutes int     `json:"total_reading_time_minutes"`
	CurrentlyReading        bool    `json:"currently_reading"`
	AverageRating           float64 `json:"average_rating"`
}

// Compute derives aggregate statistics from a book snapshot.
func Compute(books []entities.Book) Stats {
	s := Stats{TotalBooks: len(books)}
	if len(books) == 0 {
		return s
	}

	var progressSum, ratingSum float64
	var rated int
	for _, b := range books {
		switch b.Status {
		case entities.StatusReading:
			s.BooksReading++
		case entities.StatusFinished:
			s.BooksFinished++
		case entities.StatusWishlist:
			s.BooksWishlist++
		}
		progressSum += b.Progress
		s.TotalReadingTimeMinutes += b.TotalReadingTimeMinutes
		if b.IsCurrentlyReading {
			s.CurrentlyReading = true
		}
		if b.Rating > 0 {
			ratingSum += b.Rating
			rated++
		}
	}

	s.AverageProgressPercent = int(progressSum / float64(len(books)) * 100)
	if rated > 0 {
		s.AverageRating = ratingSum / float64(rated)
	}
	return s
}

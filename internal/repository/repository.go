// Package repository is the single access point the delivery layer depends
// on: it composes the local entity stores with the online catalog client and
// applies the derived-state rules before every progress-affecting write.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lydia-karungi/booknest/internal/catalog"
	"github.com/lydia-karungi/booknest/internal/entities"
	"github.com/lydia-karungi/booknest/internal/progress"
)

// Sentinel errors callers can classify with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
)

// Fallback literals used when an imported search hit omits a field.
const (
	UnknownTitle    = "Unknown Title"
	UnknownAuthor   = "Unknown Author"
	DefaultCategory = "Fiction"
)

// BookStore is the book persistence surface the facade writes through.
type BookStore interface {
	Save(book *entities.Book) error
	GetByID(id string) (*entities.Book, error)
	GetAll() ([]entities.Book, error)
	GetByStatus(status entities.BookStatus) ([]entities.Book, error)
	Delete(id string) error
}

// LogStore is the reading-log persistence surface the facade writes through.
type LogStore interface {
	Save(logEntry *entities.ReadingLog) error
	GetByID(id string) (*entities.ReadingLog, error)
	GetFiltered(isPublic *bool, logType *entities.LogType) ([]entities.ReadingLog, error)
	GetByBook(bookID string) ([]entities.ReadingLog, error)
	GetRecent(limit int) ([]entities.ReadingLog, error)
	Delete(id string) error
	SetLikes(id string, likes int, liked bool) error
	CountTotal() (int64, error)
	CountPublic() (int64, error)
	CountByType(logType entities.LogType) (int64, error)
}

// Searcher is the online catalog collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]catalog.Volume, error)
}

// Repository composes the entity stores with the catalog client. All
// collaborators are injected; the composition root owns their lifecycles.
type Repository struct {
	books  BookStore
	logs   LogStore
	search Searcher
}

// New creates the repository facade.
func New(books BookStore, logs LogStore, search Searcher) *Repository {
	return &Repository{books: books, logs: logs, search: search}
}

// --- Book operations ---

// AddBook stores a book, stamping identity and creation time when absent.
func (r *Repository) AddBook(book *entities.Book) error {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	if book.DateAdded == 0 {
		book.DateAdded = time.Now().UnixMilli()
	}
	if book.Status == "" {
		book.Status = entities.StatusWishlist
	}
	return r.books.Save(book)
}

func (r *Repository) GetBook(id string) (*entities.Book, error) {
	return r.books.GetByID(id)
}

func (r *Repository) AllBooks() ([]entities.Book, error) {
	return r.books.GetAll()
}

func (r *Repository) BooksByStatus(status entities.BookStatus) ([]entities.Book, error) {
	return r.books.GetByStatus(status)
}

// DeleteBook removes a book and, through the store, all logs referencing it.
func (r *Repository) DeleteBook(id string) error {
	return r.books.Delete(id)
}

// UpdateProgress applies a progress fraction to a book. The value is clamped
// to [0,1], status is derived (a Finished book is never reopened by a
// progress write), and the completion timestamp is stamped when the book
// reaches full progress.
func (r *Repository) UpdateProgress(id string, newProgress float64) (*entities.Book, error) {
	book, err := r.books.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s %w", id, ErrNotFound)
	}

	now := time.Now().UnixMilli()
	book.Progress = progress.Clamp(newProgress, 0, 1)
	book.Status = progress.NextStatus(book.Progress, book.Status)
	book.LastReadTime = now
	if book.Progress >= 1.0 && book.DateFinished == nil {
		book.DateFinished = &now
	}

	if err := r.books.Save(book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateProgressByPages applies a page position to a book. A zero totalPages
// leaves the stored progress fraction unchanged.
func (r *Repository) UpdateProgressByPages(id string, currentPage, totalPages int) (*entities.Book, error) {
	book, err := r.books.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s %w", id, ErrNotFound)
	}

	if currentPage < 0 {
		currentPage = 0
	}

	now := time.Now().UnixMilli()
	book.Progress = progress.FromPages(currentPage, totalPages, book.Progress)
	book.CurrentPage = currentPage
	if totalPages > 0 {
		book.PageCount = totalPages
	}
	book.Status = progress.NextStatus(book.Progress, book.Status)
	book.LastReadTime = now
	if book.Progress >= 1.0 && book.DateFinished == nil {
		book.DateFinished = &now
	}

	if err := r.books.Save(book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateStatus performs an explicit status transition. Unlike progress
// writes, this path may reopen a Finished book. Finishing forces progress to
// 1.0 and stamps the completion timestamp; moving back to Wishlist resets
// progress; leaving Finished clears the completion timestamp.
func (r *Repository) UpdateStatus(id string, status entities.BookStatus) (*entities.Book, error) {
	if !entities.ValidStatus(status) {
		return nil, fmt.Errorf("%w status %q", ErrInvalid, status)
	}

	book, err := r.books.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s %w", id, ErrNotFound)
	}

	now := time.Now().UnixMilli()
	book.Status = status
	book.LastReadTime = now
	book.IsCurrentlyReading = status == entities.StatusReading

	switch status {
	case entities.StatusFinished:
		book.Progress = 1.0
		book.DateFinished = &now
	case entities.StatusWishlist:
		book.Progress = 0
		book.DateFinished = nil
	default:
		book.DateFinished = nil
	}

	if err := r.books.Save(book); err != nil {
		return nil, err
	}
	return book, nil
}

// StartReadingSession marks a book as actively being read. A wishlist book
// moves into Reading on its first session.
func (r *Repository) StartReadingSession(id string) (*entities.Book, error) {
	book, err := r.books.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s %w", id, ErrNotFound)
	}

	book.IsCurrentlyReading = true
	book.LastReadTime = time.Now().UnixMilli()
	if book.Status == entities.StatusWishlist {
		book.Status = entities.StatusReading
	}
	book.ReadingSessions++

	if err := r.books.Save(book); err != nil {
		return nil, err
	}
	return book, nil
}

// EndReadingSession closes the active session, accumulates reading time, and
// refreshes the derived speed and time-to-finish estimates.
func (r *Repository) EndReadingSession(id string, durationMinutes int) (*entities.Book, error) {
	book, err := r.books.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s %w", id, ErrNotFound)
	}

	if durationMinutes < 0 {
		durationMinutes = 0
	}

	book.IsCurrentlyReading = false
	book.LastReadTime = time.Now().UnixMilli()
	book.TotalReadingTimeMinutes += durationMinutes
	book.LastSessionDuration = durationMinutes
	book.ReadingSpeed = progress.Speed(book.CurrentPage, book.TotalReadingTimeMinutes)
	book.EstimatedTimeLeft = progress.EstimateMinutesLeft(
		progress.PagesRemaining(book.PageCount, book.CurrentPage), book.ReadingSpeed)

	if err := r.books.Save(book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateNotes replaces a book's free-text notes.
func (r *Repository) UpdateNotes(id, notes string) (*entities.Book, error) {
	book, err := r.books.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s %w", id, ErrNotFound)
	}

	book.Notes = notes
	book.LastReadTime = time.Now().UnixMilli()

	if err := r.books.Save(book); err != nil {
		return nil, err
	}
	return book, nil
}

// BookEdit carries the descriptive fields an explicit edit may replace.
// Nil fields are left untouched.
type BookEdit struct {
	Title     *string
	Author    *string
	Category  *string
	PageCount *int
	Rating    *float64
	CoverURL  *string
}

// EditBook applies an explicit edit to an existing book. Only the descriptive
// fields can change this way; progress, status and session accounting keep
// their dedicated operations. Logs recorded before the edit keep their
// title and author snapshots.
func (r *Repository) EditBook(id string, edit BookEdit) (*entities.Book, error) {
	book, err := r.books.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s %w", id, ErrNotFound)
	}

	if edit.Title != nil {
		if *edit.Title == "" {
			return nil, fmt.Errorf("%w title: must not be empty", ErrInvalid)
		}
		book.Title = *edit.Title
	}
	if edit.Author != nil {
		if *edit.Author == "" {
			return nil, fmt.Errorf("%w author: must not be empty", ErrInvalid)
		}
		book.Author = *edit.Author
	}
	if edit.Category != nil {
		book.Category = *edit.Category
	}
	if edit.PageCount != nil && *edit.PageCount >= 0 {
		book.PageCount = *edit.PageCount
	}
	if edit.Rating != nil {
		book.Rating = *edit.Rating
	}
	if edit.CoverURL != nil {
		if *edit.CoverURL == "" {
			book.CoverImagePath = nil
		} else {
			cover := *edit.CoverURL
			book.CoverImagePath = &cover
		}
	}

	if err := r.books.Save(book); err != nil {
		return nil, err
	}
	return book, nil
}

// ReadingStats computes the aggregate statistics snapshot over the library.
func (r *Repository) ReadingStats() (progress.Stats, error) {
	books, err := r.books.GetAll()
	if err != nil {
		return progress.Stats{}, err
	}
	return progress.Compute(books), nil
}

// --- Online search ---

// SearchOnline queries the external catalog. Failures are logged and returned
// as errors; nothing panics across this boundary.
func (r *Repository) SearchOnline(ctx context.Context, query string, maxResults int) ([]catalog.Volume, error) {
	hits, err := r.search.Search(ctx, query, maxResults)
	if err != nil {
		log.Printf("Online search failed for %q: %v", query, err)
		return nil, err
	}
	return hits, nil
}

// ImportFromSearchHit maps an external search result into a new wishlist
// book, substituting fallback literals for absent fields.
func (r *Repository) ImportFromSearchHit(hit catalog.Volume) (*entities.Book, error) {
	title := hit.Title
	if title == "" {
		title = UnknownTitle
	}
	author := strings.Join(hit.Authors, ", ")
	if author == "" {
		author = UnknownAuthor
	}
	category := DefaultCategory
	if len(hit.Categories) > 0 {
		category = hit.Categories[0]
	}

	book := &entities.Book{
		ID:        uuid.NewString(),
		Title:     title,
		Author:    author,
		Status:    entities.StatusWishlist,
		Progress:  0,
		Rating:    hit.AverageRating,
		Category:  category,
		PageCount: hit.PageCount,
		DateAdded: time.Now().UnixMilli(),
	}
	if hit.ThumbnailURL != "" {
		thumb := hit.ThumbnailURL
		book.CoverImagePath = &thumb
	}

	if err := r.books.Save(book); err != nil {
		return nil, err
	}
	return book, nil
}

// --- Reading logs ---

// RecordLog creates a journal entry for a book, stamping an identifier and
// the current date and snapshotting the book's title and author.
func (r *Repository) RecordLog(bookID, note string, logType entities.LogType, rating float64, isPublic bool) (*entities.ReadingLog, error) {
	if !entities.ValidLogType(logType) {
		return nil, fmt.Errorf("%w log type %q", ErrInvalid, logType)
	}

	book, err := r.books.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s %w", bookID, ErrNotFound)
	}

	logEntry := &entities.ReadingLog{
		ID:        uuid.NewString(),
		BookID:    book.ID,
		BookTitle: book.Title,
		Author:    book.Author,
		Note:      note,
		LogType:   logType,
		Rating:    rating,
		Date:      time.Now().Format(entities.LogDateFormat),
		IsPublic:  isPublic,
	}

	if err := r.logs.Save(logEntry); err != nil {
		return nil, err
	}
	return logEntry, nil
}

// LogEdit carries the fields an explicit journal edit may replace. Nil
// fields are left untouched.
type LogEdit struct {
	Note     *string
	LogType  *entities.LogType
	Rating   *float64
	IsPublic *bool
}

// EditLog applies an explicit edit to an existing journal entry. The stamped
// date, the book reference and the like state survive the edit.
func (r *Repository) EditLog(id string, edit LogEdit) (*entities.ReadingLog, error) {
	logEntry, err := r.logs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if logEntry == nil {
		return nil, fmt.Errorf("reading log %s %w", id, ErrNotFound)
	}

	if edit.Note != nil {
		if *edit.Note == "" {
			return nil, fmt.Errorf("%w note: must not be empty", ErrInvalid)
		}
		logEntry.Note = *edit.Note
	}
	if edit.LogType != nil {
		if !entities.ValidLogType(*edit.LogType) {
			return nil, fmt.Errorf("%w log type %q", ErrInvalid, *edit.LogType)
		}
		logEntry.LogType = *edit.LogType
	}
	if edit.Rating != nil {
		logEntry.Rating = *edit.Rating
	}
	if edit.IsPublic != nil {
		logEntry.IsPublic = *edit.IsPublic
	}

	if err := r.logs.Save(logEntry); err != nil {
		return nil, err
	}
	return logEntry, nil
}

func (r *Repository) GetLog(id string) (*entities.ReadingLog, error) {
	return r.logs.GetByID(id)
}

func (r *Repository) LogsFiltered(isPublic *bool, logType *entities.LogType) ([]entities.ReadingLog, error) {
	return r.logs.GetFiltered(isPublic, logType)
}

func (r *Repository) LogsByBook(bookID string) ([]entities.ReadingLog, error) {
	return r.logs.GetByBook(bookID)
}

func (r *Repository) RecentLogs(limit int) ([]entities.ReadingLog, error) {
	return r.logs.GetRecent(limit)
}

func (r *Repository) DeleteLog(id string) error {
	return r.logs.Delete(id)
}

// Like marks a log as liked by the current user and increments its count.
// Liking an already-liked log is a no-op.
func (r *Repository) Like(id string) (*entities.ReadingLog, error) {
	logEntry, err := r.logs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if logEntry == nil {
		return nil, fmt.Errorf("reading log %s %w", id, ErrNotFound)
	}
	if logEntry.IsLikedByUser {
		return logEntry, nil
	}

	if err := r.logs.SetLikes(id, logEntry.Likes+1, true); err != nil {
		return nil, err
	}

	logEntry.Likes++
	logEntry.IsLikedByUser = true
	return logEntry, nil
}

// Unlike removes the current user's like. Unliking an unliked log is a
// no-op, and the count never drops below zero.
func (r *Repository) Unlike(id string) (*entities.ReadingLog, error) {
	logEntry, err := r.logs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if logEntry == nil {
		return nil, fmt.Errorf("reading log %s %w", id, ErrNotFound)
	}
	if !logEntry.IsLikedByUser {
		return logEntry, nil
	}

	likes := logEntry.Likes - 1
	if likes < 0 {
		likes = 0
	}

	if err := r.logs.SetLikes(id, likes, false); err != nil {
		return nil, err
	}

	logEntry.Likes = likes
	logEntry.IsLikedByUser = false
	return logEntry, nil
}

// LogStats is a point-in-time aggregate over the journal.
type LogStats struct {
	Total  int64            `json:"total"`
	Public int64            `json:"public"`
	ByType map[string]int64 `json:"by_type"`
}

// JournalStats computes scalar counters over the reading journal.
func (r *Repository) JournalStats() (LogStats, error) {
	stats := LogStats{ByType: make(map[string]int64)}

	var err error
	if stats.Total, err = r.logs.CountTotal(); err != nil {
		return stats, err
	}
	if stats.Public, err = r.logs.CountPublic(); err != nil {
		return stats, err
	}

	for _, logType := range []entities.LogType{
		entities.LogTypeThought, entities.LogTypeReview,
		entities.LogTypeQuote, entities.LogTypeProgress,
	} {
		count, err := r.logs.CountByType(logType)
		if err != nil {
			return stats, err
		}
		stats.ByType[string(logType)] = count
	}
	return stats, nil
}

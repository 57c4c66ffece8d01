// Package logs provides database operations for reading journal entries.
package logs

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lydia-karungi/booknest/internal/database"
	"github.com/lydia-karungi/booknest/internal/entities"
)

// Repository handles all reading-log database operations.
//
// Ordering note: logs are sorted by the stored date string descending. The
// format written by this application is zero-padded, so the lexical sort
// matches chronological order as long as the format never varies.
type Repository struct {
	db       *gorm.DB
	notifier *database.Notifier
}

// NewRepository creates a new reading-log repository.
func NewRepository(db *gorm.DB, notifier *database.Notifier) *Repository {
	return &Repository{db: db, notifier: notifier}
}

// Save upserts a log by identity (insert-or-replace). The book_id foreign key
// must reference an existing book.
func (r *Repository) Save(logEntry *entities.ReadingLog) error {
	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(logEntry).Error
	if err != nil {
		return err
	}
	r.notifier.Publish(database.TableLogs)
	return nil
}

// GetByID retrieves a log by its identifier, or nil when absent.
func (r *Repository) GetByID(id string) (*entities.ReadingLog, error) {
	var logEntry entities.ReadingLog
	err := r.db.Where("id = ?", id).First(&logEntry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &logEntry, nil
}

// GetAll returns every log, newest first.
func (r *Repository) GetAll() ([]entities.ReadingLog, error) {
	var entries []entities.ReadingLog
	err := r.db.Order("date DESC").Find(&entries).Error
	return entries, err
}

// GetFiltered returns logs matching the optional predicates. A nil isPublic
// or logType means "don't filter on this field".
func (r *Repository) GetFiltered(isPublic *bool, logType *entities.LogType) ([]entities.ReadingLog, error) {
	query := r.db.Model(&entities.ReadingLog{})
	if isPublic != nil {
		query = query.Where("is_public = ?", *isPublic)
	}
	if logType != nil {
		query = query.Where("log_type = ?", *logType)
	}

	var entries []entities.ReadingLog
	err := query.Order("date DESC").Find(&entries).Error
	return entries, err
}

// GetByBook returns the logs referencing one book, newest first.
func (r *Repository) GetByBook(bookID string) ([]entities.ReadingLog, error) {
	var entries []entities.ReadingLog
	err := r.db.Where("book_id = ?", bookID).Order("date DESC").Find(&entries).Error
	return entries, err
}

// GetRecent returns the newest logs up to limit.
func (r *Repository) GetRecent(limit int) ([]entities.ReadingLog, error) {
	var entries []entities.ReadingLog
	err := r.db.Order("date DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// Delete removes a log by identifier.
func (r *Repository) Delete(id string) error {
	err := r.db.Where("id = ?", id).Delete(&entities.ReadingLog{}).Error
	if err != nil {
		return err
	}
	r.notifier.Publish(database.TableLogs)
	return nil
}

// SetLikes sets the like count and the liked-by-current-user flag of a log in
// one statement, so the pair can never be observed half-applied.
func (r *Repository) SetLikes(id string, likes int, liked bool) error {
	err := r.db.Model(&entities.ReadingLog{}).Where("id = ?", id).Updates(map[string]any{
		"likes":            likes,
		"is_liked_by_user": liked,
	}).Error
	if err != nil {
		return err
	}
	r.notifier.Publish(database.TableLogs)
	return nil
}

// CountTotal returns the total number of logs.
func (r *Repository) CountTotal() (int64, error) {
	var count int64
	err := r.db.Model(&entities.ReadingLog{}).Count(&count).Error
	return count, err
}

// CountPublic returns the number of public logs.
func (r *Repository) CountPublic() (int64, error) {
	var count int64
	err := r.db.Model(&entities.ReadingLog{}).Where("is_public = ?", true).Count(&count).Error
	return count, err
}

// CountByType returns the number of logs of one type.
func (r *Repository) CountByType(logType entities.LogType) (int64, error) {
	var count int64
	err := r.db.Model(&entities.ReadingLog{}).Where("log_type = ?", logType).Count(&count).Error
	return count, err
}

// WatchFiltered returns a reactive view over a filtered log query: the result
// is delivered immediately and re-delivered after every committed log write.
func (r *Repository) WatchFiltered(ctx context.Context, isPublic *bool, logType *entities.LogType) <-chan []entities.ReadingLog {
	return database.Watch(ctx, r.notifier, database.TableLogs, func() ([]entities.ReadingLog, error) {
		return r.GetFiltered(isPublic, logType)
	})
}

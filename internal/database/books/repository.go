// Package books provides database operations for the book library.
//
// # Usage
//
//	repo := books.NewRepository(db.DB, db.Notifier)
//	book, err := repo.GetByID("...")
package books

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lydia-karungi/booknest/internal/database"
	"github.com/lydia-karungi/booknest/internal/entities"
)

// Repository handles all book database operations. Write errors are the
// storage engine's errors, propagated untranslated. A lookup miss is a nil
// result, not an error.
type Repository struct {
	db       *gorm.DB
	notifier *database.Notifier
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB, notifier *database.Notifier) *Repository {
	return &Repository{db: db, notifier: notifier}
}

// Save upserts a book by identity (insert-or-replace). No validation beyond
// what the schema enforces.
func (r *Repository) Save(book *entities.Book) error {
	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(book).Error
	if err != nil {
		return err
	}
	r.notifier.Publish(database.TableBooks)
	return nil
}

// GetByID retrieves a book by its identifier, or nil when absent.
func (r *Repository) GetByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ?", id).First(&book).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAll returns every book, newest-added first.
func (r *Repository) GetAll() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("date_added DESC").Find(&books).Error
	return books, err
}

// GetByStatus returns books in the given lifecycle status, newest-added first.
func (r *Repository) GetByStatus(status entities.BookStatus) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("status = ?", status).Order("date_added DESC").Find(&books).Error
	return books, err
}

// Delete removes a book and cascades deletion of its reading logs. The log
// delete is explicit inside the transaction in addition to the schema's
// ON DELETE CASCADE, so behaviour does not depend on the foreign_keys pragma.
func (r *Repository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.ReadingLog{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Book{}).Error
	})
	if err != nil {
		return err
	}
	r.notifier.Publish(database.TableBooks)
	r.notifier.Publish(database.TableLogs)
	return nil
}

// UpdateFields updates specific columns without touching the rest of the row.
func (r *Repository) UpdateFields(id string, fields map[string]any) error {
	err := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return err
	}
	r.notifier.Publish(database.TableBooks)
	return nil
}

// CountFinished returns the number of finished books.
func (r *Repository) CountFinished() (int64, error) {
	return r.countByStatus(entities.StatusFinished)
}

// CountReading returns the number of books currently being read.
func (r *Repository) CountReading() (int64, error) {
	return r.countByStatus(entities.StatusReading)
}

func (r *Repository) countByStatus(status entities.BookStatus) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// WatchAll returns a reactive view over the full library: the current list is
// delivered immediately and re-delivered after every committed book write,
// until ctx is cancelled.
func (r *Repository) WatchAll(ctx context.Context) <-chan []entities.Book {
	return database.Watch(ctx, r.notifier, database.TableBooks, r.GetAll)
}

// WatchByStatus returns a reactive view over one status bucket.
func (r *Repository) WatchByStatus(ctx context.Context, status entities.BookStatus) <-chan []entities.Book {
	return database.Watch(ctx, r.notifier, database.TableBooks, func() ([]entities.Book, error) {
		return r.GetByStatus(status)
	})
}

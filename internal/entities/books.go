package entities

type BookStatus string

const (
	StatusWishlist BookStatus = "Wishlist"
	StatusReading  BookStatus = "Reading"
	StatusFinished BookStatus = "Finished"
)

// ValidStatus reports whether s is one of the three lifecycle statuses.
func ValidStatus(s BookStatus) bool {
	switch s {
	case StatusWishlist, StatusReading, StatusFinished:
		return true
	}
	return false
}

type LogType string

const (
	LogTypeThought  LogType = "Thought"
	LogTypeReview   LogType = "Review"
	LogTypeQuote    LogType = "Quote"
	LogTypeProgress LogType = "Progress"
)

// ValidLogType reports whether t is one of the four journal entry types.
func ValidLogType(t LogType) bool {
	switch t {
	case LogTypeThought, LogTypeReview, LogTypeQuote, LogTypeProgress:
		return true
	}
	return false
}

// Book is a library entry. Identity is an opaque UUID string assigned at
// creation. Timestamps are unix milliseconds to match the on-device schema.
type Book struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	Title          string     `gorm:"index;size:512" json:"title"`
	Author         string     `gorm:"index;size:256" json:"author"`
	Status         BookStatus `gorm:"index;size:20;default:'Wishlist'" json:"status"`
	Progress       float64    `gorm:"default:0" json:"progress"` // 0.0 - 1.0
	Rating         float64    `gorm:"default:0" json:"rating"`   // 0.0 - 5.0
	Category       string     `gorm:"size:100" json:"category"`
	PageCount      int        `gorm:"default:0" json:"page_count"`
	CoverImagePath *string    `gorm:"size:2048" json:"cover_image_path,omitempty"`
	DateAdded      int64      `gorm:"index" json:"date_added"`
	DateFinished   *int64     `json:"date_finished,omitempty"`

	// Reading-tracking columns added in schema version 2.
	CurrentPage             int     `gorm:"default:0" json:"current_page"`
	LastReadTime            int64   `gorm:"default:0" json:"last_read_time"`
	TotalReadingTimeMinutes int     `gorm:"default:0" json:"total_reading_time_minutes"`
	ReadingSpeed            float64 `gorm:"default:0" json:"reading_speed"` // pages per hour
	ReadingSessions         int     `gorm:"default:0" json:"reading_sessions"`
	LastSessionDuration     int     `gorm:"default:0" json:"last_session_duration"`
	Bookmarks               string  `gorm:"type:text" json:"bookmarks,omitempty"`
	Notes                   string  `gorm:"type:text" json:"notes,omitempty"`
	IsCurrentlyReading      bool    `gorm:"default:false" json:"is_currently_reading"`
	EstimatedTimeLeft       int     `gorm:"default:0" json:"estimated_time_left"` // minutes
}

// ReadingLog is a journal entry tied to exactly one Book. BookTitle and Author
// are deliberate denormalized snapshots taken at creation time; they can drift
// from the owning Book's current title/author and are never back-filled.
//
// Date is a formatted string rather than a numeric timestamp. That shape comes
// from the stored schema: ordering by it is lexical, which only matches
// chronological order while the format stays fixed ("2006-01-02 15:04").
type ReadingLog struct {
	ID            string  `gorm:"primaryKey;size:36" json:"id"`
	BookID        string  `gorm:"index;size:36" json:"book_id"`
	BookTitle     string  `gorm:"size:512" json:"book_title"`
	Author        string  `gorm:"size:256" json:"author"`
	Note          string  `gorm:"type:text" json:"note"`
	LogType       LogType `gorm:"index;size:20" json:"log_type"`
	Rating        float64 `gorm:"default:0" json:"rating"`
	Date          string  `gorm:"size:32" json:"date"`
	IsPublic      bool    `gorm:"default:true" json:"is_public"`
	Likes         int     `gorm:"default:0" json:"likes"`
	Comments      int     `gorm:"default:0" json:"comments"`
	IsLikedByUser bool    `gorm:"default:false" json:"is_liked_by_user"`
}

func (Book) TableName() string {
	return "books"
}

func (ReadingLog) TableName() string {
	return "reading_logs"
}

// LogDateFormat is the layout used for ReadingLog.Date values written by this
// application. Zero-padded so lexical ordering matches chronological ordering.
const LogDateFormat = "2006-01-02 15:04"

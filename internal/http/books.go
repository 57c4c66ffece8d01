package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lydia-karungi/booknest/internal/entities"
	"github.com/lydia-karungi/booknest/internal/repository"
)

type BooksController struct {
	repo *repository.Repository
}

func NewBooksController(repo *repository.Repository) *BooksController {
	return &BooksController{repo: repo}
}

// CreateBookRequest is the request body for adding a book manually.
type CreateBookRequest struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Status    string  `json:"status,omitempty"`
	Category  string  `json:"category,omitempty"`
	PageCount int     `json:"page_count,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	CoverURL  string  `json:"cover_url,omitempty"`
}

// GetAllBooks handles GET /api/books
// An optional ?status= query narrows the list to one shelf.
func (controller *BooksController) GetAllBooks(c *gin.Context) {
	var (
		books []entities.Book
		err   error
	)

	if status := c.Query("status"); status != "" {
		bookStatus := entities.BookStatus(status)
		if !entities.ValidStatus(bookStatus) {
			respondBadRequest(c, "invalid status: "+status)
			return
		}
		books, err = controller.repo.BooksByStatus(bookStatus)
	} else {
		books, err = controller.repo.AllBooks()
	}
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GetBook handles GET /api/books/:id
func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.repo.GetBook(id)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

// CreateBook handles POST /api/books
func (controller *BooksController) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Title == "" || req.Author == "" {
		respondBadRequest(c, "title and author are required")
		return
	}

	status := entities.StatusWishlist
	if req.Status != "" {
		status = entities.BookStatus(req.Status)
		if !entities.ValidStatus(status) {
			respondBadRequest(c, "invalid status: "+req.Status)
			return
		}
	}

	book := &entities.Book{
		Title:     req.Title,
		Author:    req.Author,
		Status:    status,
		Category:  req.Category,
		PageCount: req.PageCount,
		Rating:    req.Rating,
	}
	if req.CoverURL != "" {
		cover := req.CoverURL
		book.CoverImagePath = &cover
	}

	if err := controller.repo.AddBook(book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, book)
}

// UpdateBookRequest is the request body for editing a book's descriptive
// fields. Absent fields keep their stored values.
type UpdateBookRequest struct {
	Title     *string  `json:"title,omitempty"`
	Author    *string  `json:"author,omitempty"`
	Category  *string  `json:"category,omitempty"`
	PageCount *int     `json:"page_count,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	CoverURL  *string  `json:"cover_url,omitempty"`
}

// UpdateBook handles PUT /api/books/:id
// Edits descriptive fields in place; the identifier and the reading state
// (progress, status, sessions) are not editable through this endpoint.
func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := controller.repo.EditBook(id, repository.BookEdit{
		Title:     req.Title,
		Author:    req.Author,
		Category:  req.Category,
		PageCount: req.PageCount,
		Rating:    req.Rating,
		CoverURL:  req.CoverURL,
	})
	if err != nil {
		respondRepositoryError(c, err, "update book")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

// DeleteBook handles DELETE /api/books/:id
// Deleting a book also removes its reading logs.
func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.repo.GetBook(id)
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	if err := controller.repo.DeleteBook(id); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	respondSuccess(c, "book deleted")
}

// GetBookLogs handles GET /api/books/:id/logs
func (controller *BooksController) GetBookLogs(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	logEntries, err := controller.repo.LogsByBook(id)
	if err != nil {
		respondInternalError(c, err, "list book logs")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"logs": logEntries, "count": len(logEntries)})
}

// UpdateProgressRequest carries either a progress fraction or a page
// position. When TotalPages is present the page pair wins.
type UpdateProgressRequest struct {
	Progress    *float64 `json:"progress,omitempty"`
	CurrentPage *int     `json:"current_page,omitempty"`
	TotalPages  *int     `json:"total_pages,omitempty"`
}

// UpdateProgress handles PATCH /api/books/:id/progress
func (controller *BooksController) UpdateProgress(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	var (
		book *entities.Book
		err  error
	)
	switch {
	case req.CurrentPage != nil:
		totalPages := 0
		if req.TotalPages != nil {
			totalPages = *req.TotalPages
		}
		book, err = controller.repo.UpdateProgressByPages(id, *req.CurrentPage, totalPages)
	case req.Progress != nil:
		book, err = controller.repo.UpdateProgress(id, *req.Progress)
	default:
		respondBadRequest(c, "progress or current_page is required")
		return
	}
	if err != nil {
		respondRepositoryError(c, err, "update progress")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

// UpdateStatusRequest is the request body for an explicit status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/books/:id/status
func (controller *BooksController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := controller.repo.UpdateStatus(id, entities.BookStatus(req.Status))
	if err != nil {
		respondRepositoryError(c, err, "update status")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

// StartSession handles POST /api/books/:id/sessions/start
func (controller *BooksController) StartSession(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.repo.StartReadingSession(id)
	if err != nil {
		respondRepositoryError(c, err, "start reading session")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

// EndSessionRequest is the request body for closing a reading session.
type EndSessionRequest struct {
	DurationMinutes int `json:"duration_minutes"`
}

// EndSession handles POST /api/books/:id/sessions/end
func (controller *BooksController) EndSession(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := controller.repo.EndReadingSession(id, req.DurationMinutes)
	if err != nil {
		respondRepositoryError(c, err, "end reading session")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

// UpdateNotesRequest is the request body for replacing a book's notes.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateNotes handles PATCH /api/books/:id/notes
func (controller *BooksController) UpdateNotes(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := controller.repo.UpdateNotes(id, req.Notes)
	if err != nil {
		respondRepositoryError(c, err, "update notes")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

// GetBookStats handles GET /api/books/stats
func (controller *BooksController) GetBookStats(c *gin.Context) {
	stats, err := controller.repo.ReadingStats()
	if err != nil {
		respondInternalError(c, err, "reading stats")
		return
	}

	c.IndentedJSON(http.StatusOK, stats)
}

package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lydia-karungi/booknest/internal/catalog"
	"github.com/lydia-karungi/booknest/internal/repository"
	"github.com/lydia-karungi/booknest/internal/tasks"
)

// SearchController exposes the online catalog: searching it and importing
// hits into the local library.
type SearchController struct {
	repo       *repository.Repository
	taskClient *tasks.Client
	maxResults int
}

func NewSearchController(repo *repository.Repository, taskClient *tasks.Client, maxResults int) *SearchController {
	return &SearchController{
		repo:       repo,
		taskClient: taskClient,
		maxResults: maxResults,
	}
}

// Search handles GET /api/search?q=
func (controller *SearchController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q query parameter is required")
		return
	}

	maxResults := controller.maxResults
	if maxStr := c.Query("max_results"); maxStr != "" {
		if m, err := strconv.Atoi(maxStr); err == nil && m > 0 && m <= 40 {
			maxResults = m
		}
	}

	hits, err := controller.repo.SearchOnline(c.Request.Context(), query, maxResults)
	if err != nil {
		respondInternalError(c, err, "online search")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"results": hits, "count": len(hits)})
}

// ImportRequest is the request body for importing a search hit. It mirrors
// the shape of a search result so clients can post one back verbatim.
type ImportRequest struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PageCount     int      `json:"page_count"`
	Categories    []string `json:"categories"`
	AverageRating float64  `json:"average_rating"`
	ThumbnailURL  string   `json:"thumbnail_url"`
}

// Import handles POST /api/search/import
// The new book lands on the wishlist; when metadata is missing and the task
// queue is available, an enrichment task is queued to fill it in.
func (controller *SearchController) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := controller.repo.ImportFromSearchHit(catalog.Volume{
		ID:            req.ID,
		Title:         req.Title,
		Authors:       req.Authors,
		PageCount:     req.PageCount,
		Categories:    req.Categories,
		AverageRating: req.AverageRating,
		ThumbnailURL:  req.ThumbnailURL,
	})
	if err != nil {
		respondInternalError(c, err, "import search hit")
		return
	}

	if controller.taskClient != nil && (book.PageCount == 0 || book.CoverImagePath == nil) {
		// The import itself succeeded; enrichment can be re-run later.
		if _, err := controller.taskClient.Add(tasks.EnrichBookTask{BookID: book.ID}).Save(); err != nil {
			log.Printf("Failed to enqueue enrichment for book %s: %v", book.ID, err)
		}
	}

	respondCreated(c, book)
}

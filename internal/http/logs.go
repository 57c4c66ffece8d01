package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lydia-karungi/booknest/internal/entities"
	"github.com/lydia-karungi/booknest/internal/repository"
	"github.com/lydia-karungi/booknest/internal/share"
)

type LogsController struct {
	repo *repository.Repository
}

func NewLogsController(repo *repository.Repository) *LogsController {
	return &LogsController{repo: repo}
}

// CreateLogRequest is the request body for recording a journal entry.
type CreateLogRequest struct {
	BookID   string  `json:"book_id"`
	Note     string  `json:"note"`
	LogType  string  `json:"log_type"`
	Rating   float64 `json:"rating,omitempty"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// CreateLog handles POST /api/logs
func (controller *LogsController) CreateLog(c *gin.Context) {
	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.BookID == "" {
		respondBadRequest(c, "book_id is required")
		return
	}
	if req.Note == "" {
		respondBadRequest(c, "note is required")
		return
	}

	// Entries are public unless the caller says otherwise.
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	logEntry, err := controller.repo.RecordLog(
		req.BookID, req.Note, entities.LogType(req.LogType), req.Rating, isPublic)
	if err != nil {
		respondRepositoryError(c, err, "create log")
		return
	}

	respondCreated(c, logEntry)
}

// UpdateLogRequest is the request body for editing a journal entry. Absent
// fields keep their stored values.
type UpdateLogRequest struct {
	Note     *string  `json:"note,omitempty"`
	LogType  *string  `json:"log_type,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	IsPublic *bool    `json:"is_public,omitempty"`
}

// UpdateLog handles PUT /api/logs/:id
// The entry keeps its original date and like state.
func (controller *LogsController) UpdateLog(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	var logType *entities.LogType
	if req.LogType != nil {
		value := entities.LogType(*req.LogType)
		logType = &value
	}

	logEntry, err := controller.repo.EditLog(id, repository.LogEdit{
		Note:     req.Note,
		LogType:  logType,
		Rating:   req.Rating,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		respondRepositoryError(c, err, "update log")
		return
	}

	c.IndentedJSON(http.StatusOK, logEntry)
}

// GetLogs handles GET /api/logs
// Supports ?public=true|false and ?type= filters, applied together.
func (controller *LogsController) GetLogs(c *gin.Context) {
	var isPublic *bool
	if publicStr := c.Query("public"); publicStr != "" {
		value, err := strconv.ParseBool(publicStr)
		if err != nil {
			respondBadRequest(c, "invalid public filter: "+publicStr)
			return
		}
		isPublic = &value
	}

	var logType *entities.LogType
	if typeStr := c.Query("type"); typeStr != "" {
		value := entities.LogType(typeStr)
		if !entities.ValidLogType(value) {
			respondBadRequest(c, "invalid log type: "+typeStr)
			return
		}
		logType = &value
	}

	logEntries, err := controller.repo.LogsFiltered(isPublic, logType)
	if err != nil {
		respondInternalError(c, err, "list logs")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"logs": logEntries, "count": len(logEntries)})
}

// GetRecentLogs handles GET /api/logs/recent
func (controller *LogsController) GetRecentLogs(c *gin.Context) {
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	logEntries, err := controller.repo.RecentLogs(limit)
	if err != nil {
		respondInternalError(c, err, "recent logs")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"logs": logEntries, "count": len(logEntries)})
}

// GetLog handles GET /api/logs/:id
func (controller *LogsController) GetLog(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	logEntry, err := controller.repo.GetLog(id)
	if err != nil {
		respondInternalError(c, err, "get log")
		return
	}
	if logEntry == nil {
		respondNotFound(c, "reading log")
		return
	}

	c.IndentedJSON(http.StatusOK, logEntry)
}

// DeleteLog handles DELETE /api/logs/:id
func (controller *LogsController) DeleteLog(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	logEntry, err := controller.repo.GetLog(id)
	if err != nil {
		respondInternalError(c, err, "delete log")
		return
	}
	if logEntry == nil {
		respondNotFound(c, "reading log")
		return
	}

	if err := controller.repo.DeleteLog(id); err != nil {
		respondInternalError(c, err, "delete log")
		return
	}

	respondSuccess(c, "reading log deleted")
}

// LikeLog handles POST /api/logs/:id/like
func (controller *LogsController) LikeLog(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	logEntry, err := controller.repo.Like(id)
	if err != nil {
		respondRepositoryError(c, err, "like log")
		return
	}

	c.IndentedJSON(http.StatusOK, logEntry)
}

// UnlikeLog handles DELETE /api/logs/:id/like
func (controller *LogsController) UnlikeLog(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	logEntry, err := controller.repo.Unlike(id)
	if err != nil {
		respondRepositoryError(c, err, "unlike log")
		return
	}

	c.IndentedJSON(http.StatusOK, logEntry)
}

// ShareLog handles GET /api/logs/:id/share
// Returns the ready-to-post share text for the entry.
func (controller *LogsController) ShareLog(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	logEntry, err := controller.repo.GetLog(id)
	if err != nil {
		respondInternalError(c, err, "share log")
		return
	}
	if logEntry == nil {
		respondNotFound(c, "reading log")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"log_id": logEntry.ID,
		"text":   share.Text(logEntry),
	})
}

// GetLogStats handles GET /api/logs/stats
func (controller *LogsController) GetLogStats(c *gin.Context) {
	stats, err := controller.repo.JournalStats()
	if err != nil {
		respondInternalError(c, err, "log stats")
		return
	}

	c.IndentedJSON(http.StatusOK, stats)
}

package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Repository)
	logsController := NewLogsController(cfg.Repository)
	searchController := NewSearchController(cfg.Repository, cfg.TaskClient, cfg.CatalogMaxResults)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Books API endpoints
	router.GET("/api/books", booksController.GetAllBooks)
	router.GET("/api/books/stats", booksController.GetBookStats)
	router.POST("/api/books", booksController.CreateBook)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PUT("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)
	router.GET("/api/books/:id/logs", booksController.GetBookLogs)
	router.PATCH("/api/books/:id/progress", booksController.UpdateProgress)
	router.PATCH("/api/books/:id/status", booksController.UpdateStatus)
	router.PATCH("/api/books/:id/notes", booksController.UpdateNotes)
	router.POST("/api/books/:id/sessions/start", booksController.StartSession)
	router.POST("/api/books/:id/sessions/end", booksController.EndSession)

	// Reading log endpoints
	router.POST("/api/logs", logsController.CreateLog)
	router.GET("/api/logs", logsController.GetLogs)
	router.GET("/api/logs/recent", logsController.GetRecentLogs)
	router.GET("/api/logs/stats", logsController.GetLogStats)
	router.GET("/api/logs/:id", logsController.GetLog)
	router.PUT("/api/logs/:id", logsController.UpdateLog)
	router.DELETE("/api/logs/:id", logsController.DeleteLog)
	router.POST("/api/logs/:id/like", logsController.LikeLog)
	router.DELETE("/api/logs/:id/like", logsController.UnlikeLog)
	router.GET("/api/logs/:id/share", logsController.ShareLog)

	// Online catalog endpoints
	router.GET("/api/search", searchController.Search)
	router.POST("/api/search/import", searchController.Import)

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	return router
}

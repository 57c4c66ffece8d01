package http

import (
	"github.com/lydia-karungi/booknest/internal/database"
	"github.com/lydia-karungi/booknest/internal/repository"
	"github.com/lydia-karungi/booknest/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Repository *repository.Repository
	Database   *database.Database

	// Online catalog
	CatalogMaxResults int

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}

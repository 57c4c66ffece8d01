package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lydia-karungi/booknest/internal/catalog"
	"github.com/lydia-karungi/booknest/internal/config"
	"github.com/lydia-karungi/booknest/internal/database"
	"github.com/lydia-karungi/booknest/internal/database/books"
	"github.com/lydia-karungi/booknest/internal/database/logs"
	http_controllers "github.com/lydia-karungi/booknest/internal/http"
	"github.com/lydia-karungi/booknest/internal/repository"
	"github.com/lydia-karungi/booknest/internal/scheduler"
	"github.com/lydia-karungi/booknest/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server with
	// the configured timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting BookNest v%s", version)

	// Initialize database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Wire the stores, the catalog client and the facade over them
	bookStore := books.NewRepository(db.DB, db.Notifier)
	logStore := logs.NewRepository(db.DB, db.Notifier)
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL)
	repo := repository.New(bookStore, logStore, catalogClient)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewEnrichBookQueue(repo),
			tasks.NewEnrichAllBooksQueue(repo, taskClient),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Start the periodic stats rollup
	rollup := scheduler.NewStatsRollupScheduler(repo, cfg.StatsRollup.Schedule, cfg.StatsRollup.Enabled)
	if err := rollup.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start stats rollup scheduler: %v", err)
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Repository:        repo,
		Database:          db,
		CatalogMaxResults: cfg.Catalog.MaxResults,
		TaskClient:        taskClient,
		Version:           version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, func(ctx context.Context) {
		rollup.Stop()
		if taskClient != nil {
			if taskCtxCancel != nil {
				taskCtxCancel()
			}
			taskClient.Stop(ctx)
		}
	})
}

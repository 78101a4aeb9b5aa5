package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vibehouse/internal/config"
	"vibehouse/internal/handler"
	"vibehouse/internal/logging"
	"vibehouse/internal/repository"
	"vibehouse/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// store is what the server needs from either repository implementation
type store interface {
	service.DesignRepository
	handler.Pinger
	Close() error
}

func main() {
	// Print version info
	log.Printf("Vibehouse Design Service")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize artifact store
	repo, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Database.Driver, err)
	}
	defer repo.Close()

	// Initialize services
	ranker := service.NewBudgetRanker(
		cfg.Ranking.WeightBudget,
		cfg.Ranking.WeightEfficiency,
		cfg.Ranking.WeightStyle,
	)
	pipeline := service.NewPipelineOrchestrator(repo, ranker, cfg.Pipeline.DefaultLocation, logger)
	designService := service.NewDesignService(
		repo,
		pipeline,
		service.RetryPolicy{Attempts: cfg.Pipeline.RetryCount, Delay: cfg.Pipeline.RetryDelay},
		cfg.Pipeline.SimilarLimit,
		logger,
	)

	log.Println("✅ Services initialized")
	log.Printf("   - Default location: %s", displayLocation(cfg.Pipeline.DefaultLocation))
	log.Printf("   - Retries: %d (delay %s)", cfg.Pipeline.RetryCount, cfg.Pipeline.RetryDelay)
	log.Printf("   - Ranking weights: budget=%.2f efficiency=%.2f style=%.2f",
		cfg.Ranking.WeightBudget, cfg.Ranking.WeightEfficiency, cfg.Ranking.WeightStyle)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	router.Use(cors.New(corsConfig))

	handler.RegisterRoutes(router,
		handler.NewVibeHandler(designService),
		handler.NewDesignHandler(designService),
		handler.NewHealthHandler(repo, cfg.Database.Driver, handler.BuildInfo{
			Version:   Version,
			BuildTime: BuildTime,
			GitCommit: GitCommit,
		}),
	)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API: http://localhost:%d/api/v1", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Forced shutdown: %v", err)
	}
	log.Println("✅ Server stopped")
}

func openStore(cfg *config.Config) (store, error) {
	if cfg.Database.Driver == config.DriverPostgres {
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.Database.MaxConnections,
			cfg.Database.MaxIdleConnections,
		)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := repo.Migrate(ctx); err != nil {
				repo.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		log.Println("✅ Connected to PostgreSQL database")
		return repo, nil
	}

	repo, err := repository.NewSQLiteRepository(cfg.Database.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Opened SQLite database at %s", cfg.Database.SQLitePath)
	return repo, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func displayLocation(loc string) string {
	if loc == "" {
		return "(national average)"
	}
	return loc
}

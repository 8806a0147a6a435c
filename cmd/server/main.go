package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tokiwa-akira/gkentei/internal/cache"
	"github.com/tokiwa-akira/gkentei/internal/config"
	"github.com/tokiwa-akira/gkentei/internal/handlers"
	"github.com/tokiwa-akira/gkentei/internal/index"
	"github.com/tokiwa-akira/gkentei/internal/llm"
	"github.com/tokiwa-akira/gkentei/internal/repositories/postgres"
	"github.com/tokiwa-akira/gkentei/internal/services"
	"github.com/tokiwa-akira/gkentei/internal/utils"
	"github.com/tokiwa-akira/gkentei/internal/validator"
	"github.com/tokiwa-akira/gkentei/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewProblemPostgreSQL(db)
	v := validator.New(cfg.CreativityMin, cfg.CreativityMax)
	snapshot := index.NewSnapshot()

	examCache := cache.NewRedisExamCache(redisClient, cfg.ExamCacheTTL)
	llmClient := llm.NewHTTPClient(cfg.LLMEndpoint, cfg.LLMModel, cfg.LLMTimeout)

	searchService := services.NewSearchService(repo, snapshot, v, logger, services.SearchConfig{
		MaxResults:    cfg.MaxSearchResults,
		SnippetLength: cfg.SnippetLength,
	})
	examService := services.NewExamService(repo, examCache, publisher, v, logger)
	paraphraseService := services.NewParaphraseService(llmClient, v, logger, cfg.LLMTimeout)
	indexService := services.NewIndexService(repo, snapshot, publisher, logger)
	importService := services.NewImportService(repo, publisher, v, logger)

	// Build the initial snapshot before accepting traffic. An empty store
	// still yields a valid, queryable index.
	if _, err := indexService.Rebuild(context.Background(), "startup"); err != nil {
		logger.Error("Initial index build failed", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(
		searchService,
		examService,
		paraphraseService,
		importService,
		indexService,
		repo,
		logger,
	)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

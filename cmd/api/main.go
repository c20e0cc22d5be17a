package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"vidvault/internal/categorizer"
	"vidvault/internal/config"
	"vidvault/internal/http"
	"vidvault/internal/indexer"
	"vidvault/internal/llm"
	"vidvault/internal/monitor"
	"vidvault/internal/rag"
	"vidvault/internal/service"
	"vidvault/internal/storage"
	"vidvault/internal/summarizer"
	"vidvault/internal/transcript"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	// Initialize database
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	videoRepo := storage.NewVideoRepo(db)
	categoryRepo := storage.NewCategoryRepo(db)
	graphRepo := storage.NewGraphRepo(db)
	sessionRepo := storage.NewSessionRepo(db)

	// Select the completion provider backend
	ctx := context.Background()
	provider, err := llm.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to configure completion provider %q: %v", cfg.Provider, err)
	}
	slog.Info("Completion provider configured", "provider", provider.Name())

	// Caption source
	captions := transcript.NewYouTubeSource(cfg.CaptionBaseURL)

	// Pipeline components
	pipeline := indexer.NewPipeline(graphRepo, cfg.ChunkSize)
	sum := summarizer.New(provider)
	cat := categorizer.New(provider)
	engine := rag.NewEngine(videoRepo, provider)

	// Services
	videos := service.NewVideoService(videoRepo, categoryRepo, captions, sum, cat, pipeline)
	categories := service.NewCategoryService(categoryRepo)
	chat := service.NewChatService(sessionRepo, engine)

	collector := monitor.NewCollector()

	router := http.NewRouter(&http.Deps{
		DB:           db,
		ProviderName: provider.Name(),
		VideoRepo:    videoRepo,
		Videos:       videos,
		Categories:   categories,
		Chat:         chat,
		Engine:       engine,
		Collector:    collector,
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

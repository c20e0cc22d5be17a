package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort string
	DBPath  string

	// Provider selects the completion backend: "openai", "gemini" or "ollama".
	Provider string

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	GeminiAPIKey string
	GeminiModel  string

	OllamaURL   string
	OllamaModel string

	// CaptionBaseURL is the caption source endpoint. Defaults to YouTube's
	// timedtext service.
	CaptionBaseURL string

	ChunkSize int

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent directory, it is
// loaded automatically; environment variables already set take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up toward the project root looking for a .env file.
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:        getEnv("PORT", "8000"),
		DBPath:         getEnv("DB_PATH", "./data/vidvault.db"),
		Provider:       strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OllamaURL:      getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llama3"),
		CaptionBaseURL: getEnv("CAPTION_BASE_URL", "https://www.youtube.com/api/timedtext"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}

	switch cfg.Provider {
	case "openai", "gemini", "ollama":
	default:
		return nil, fmt.Errorf("LLM_PROVIDER must be one of openai, gemini, ollama (got %q)", cfg.Provider)
	}

	chunkSizeStr := getEnv("CHUNK_SIZE", "500")
	chunkSize, err := strconv.Atoi(chunkSizeStr)
	if err != nil {
		return nil, fmt.Errorf("CHUNK_SIZE must be a valid integer: %w", err)
	}
	if chunkSize < 1 {
		return nil, fmt.Errorf("CHUNK_SIZE must be at least 1")
	}
	cfg.ChunkSize = chunkSize

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	// Create the data directory if it doesn't exist.
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error (got %q)", s)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

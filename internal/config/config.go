package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/antoniostano/simhelper/internal/matcher"
)

// Config contains all runtime settings for the helper service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string
	AllowAnyOrigin   bool
	LogLevel         string
	LogFormat        string

	MatchThreshold float64
	MatchKeywords  []string
	KnowledgeFile  string

	UpstreamTimeout time.Duration
	UpstreamRetries int

	BrainProvider  string
	BrainModel     string
	BrainFallback  string
	BrainMaxTokens int
	GeminiAPIKey   string
	GeminiBaseURL  string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	AnthropicKey   string
	BrainHTTPURL   string

	TranslateProvider  string
	TranslateURL       string
	TranslateAPIKey    string
	TranslateCacheSize int

	DatabaseURL      string
	MemorySQLitePath string
	MemoryFile       string
}

// Load reads a .env file when present, then environment variables, and
// applies safe defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":5000"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "simhelper"),
		AllowAnyOrigin:    true,
		LogLevel:          envOrDefault("APP_LOG_LEVEL", "info"),
		LogFormat:         envOrDefault("APP_LOG_FORMAT", "json"),
		KnowledgeFile:     stringsTrimSpace("KNOWLEDGE_FILE"),
		BrainProvider:     envOrDefault("BRAIN_PROVIDER", "auto"),
		BrainModel:        stringsTrimSpace("BRAIN_MODEL"),
		BrainFallback:     stringsTrimSpace("BRAIN_FALLBACK"),
		GeminiAPIKey:      stringsTrimSpace("GEMINI_API_KEY"),
		GeminiBaseURL:     stringsTrimSpace("GEMINI_BASE_URL"),
		OpenAIAPIKey:      stringsTrimSpace("OPENAI_API_KEY"),
		OpenAIBaseURL:     stringsTrimSpace("OPENAI_BASE_URL"),
		AnthropicKey:      stringsTrimSpace("ANTHROPIC_API_KEY"),
		BrainHTTPURL:      stringsTrimSpace("BRAIN_HTTP_URL"),
		TranslateProvider: envOrDefault("TRANSLATE_PROVIDER", "auto"),
		TranslateURL:      stringsTrimSpace("TRANSLATE_URL"),
		TranslateAPIKey:   stringsTrimSpace("TRANSLATE_API_KEY"),
		DatabaseURL:       stringsTrimSpace("DATABASE_URL"),
		MemorySQLitePath:  stringsTrimSpace("MEMORY_SQLITE_PATH"),
		MemoryFile:        envOrDefault("MEMORY_FILE", "simhealth_memory.txt"),
		MatchKeywords:     listFromEnv("MATCH_KEYWORDS", matcher.DefaultKeywords),

		ShutdownTimeout:    15 * time.Second,
		MatchThreshold:     matcher.DefaultThreshold,
		UpstreamTimeout:    8 * time.Second,
		UpstreamRetries:    0,
		BrainMaxTokens:     1024,
		TranslateCacheSize: 512,
	}
	if port := stringsTrimSpace("PORT"); port != "" {
		host, _, err := net.SplitHostPort(cfg.BindAddr)
		if err != nil {
			host = ""
		}
		cfg.BindAddr = net.JoinHostPort(host, port)
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.MatchThreshold, err = floatFromEnv("MATCH_THRESHOLD", cfg.MatchThreshold)
	if err != nil {
		return Config{}, err
	}
	cfg.UpstreamTimeout, err = durationFromEnv("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.UpstreamRetries, err = intFromEnv("UPSTREAM_RETRIES", cfg.UpstreamRetries)
	if err != nil {
		return Config{}, err
	}
	cfg.BrainMaxTokens, err = intFromEnv("BRAIN_MAX_TOKENS", cfg.BrainMaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.TranslateCacheSize, err = intFromEnv("TRANSLATE_CACHE_SIZE", cfg.TranslateCacheSize)
	if err != nil {
		return Config{}, err
	}

	if cfg.MatchThreshold <= 0 || cfg.MatchThreshold > 1 {
		return Config{}, fmt.Errorf("MATCH_THRESHOLD must be in (0,1]")
	}
	if cfg.UpstreamTimeout <= 0 {
		return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if cfg.UpstreamRetries < 0 {
		return Config{}, fmt.Errorf("UPSTREAM_RETRIES must be >= 0")
	}
	if cfg.BrainMaxTokens <= 0 {
		return Config{}, fmt.Errorf("BRAIN_MAX_TOKENS must be positive")
	}
	if cfg.TranslateCacheSize < 0 {
		return Config{}, fmt.Errorf("TRANSLATE_CACHE_SIZE must be >= 0")
	}
	if len(cfg.MatchKeywords) == 0 {
		return Config{}, fmt.Errorf("MATCH_KEYWORDS must name at least one keyword")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}

// listFromEnv splits a comma list, lower-casing and dropping blanks.
func listFromEnv(key string, fallback []string) []string {
	v := stringsTrimSpace(key)
	if v == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

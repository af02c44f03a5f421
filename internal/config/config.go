package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// State backends.
const (
	BackendMemory    = "memory"
	BackendFile      = "file"
	BackendSQLite    = "sqlite"
	BackendPathstore = "pathstore"
)

type Config struct {
	Port string

	// Auth for admin routes
	WikinavAPIKey string

	// Content
	WikiDir              string
	MaxConcurrentParse   int
	WatchContent         bool
	WatchDebounce        time.Duration
	PDFFallbackPdftotext bool

	// Expansion state persistence
	StateBackend string
	StateDir     string
	StateDB      string

	// Pathstore connection
	PathstoreURL    string
	PathstoreAPIKey string

	// Sessions
	SessionTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		WikinavAPIKey: os.Getenv("WIKINAV_API_KEY"),

		WikiDir:              envOr("WIKI_DIR", "wiki"),
		MaxConcurrentParse:   envInt("MAX_CONCURRENT_PARSE", 8),
		WatchContent:         envBool("WATCH_CONTENT", true),
		WatchDebounce:        envDuration("WATCH_DEBOUNCE", 250*time.Millisecond),
		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		StateBackend: envOr("STATE_BACKEND", BackendFile),
		StateDir:     envOr("STATE_DIR", ".wikinav"),
		StateDB:      envOr("STATE_DB", ".wikinav/state.db"),

		PathstoreURL:    envOr("PATHSTORE_URL", "http://localhost:8080"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		SessionTTL: envDuration("SESSION_TTL", 24*time.Hour),
	}

	if cfg.MaxConcurrentParse <= 0 {
		cfg.MaxConcurrentParse = 8
	}
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 250 * time.Millisecond
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.WikinavAPIKey == "" {
		return fmt.Errorf("WIKINAV_API_KEY is required")
	}
	switch c.StateBackend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendPathstore:
		if c.PathstoreAPIKey == "" {
			return fmt.Errorf("PATHSTORE_API_KEY is required for the pathstore backend")
		}
	default:
		return fmt.Errorf("unknown STATE_BACKEND %q", c.StateBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "WIKI_DIR", "STATE_BACKEND", "SESSION_TTL", "MAX_CONCURRENT_PARSE", "WATCH_CONTENT", "WATCH_DEBOUNCE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.WikiDir != "wiki" {
		t.Errorf("expected wiki dir, got %q", cfg.WikiDir)
	}
	if cfg.StateBackend != BackendFile {
		t.Errorf("expected file backend, got %q", cfg.StateBackend)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected 24h ttl, got %v", cfg.SessionTTL)
	}
	if !cfg.WatchContent {
		t.Error("expected watching on by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STATE_BACKEND", "sqlite")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("WATCH_CONTENT", "false")
	t.Setenv("MAX_CONCURRENT_PARSE", "2")
	cfg := Load()
	if cfg.Port != "9000" || cfg.StateBackend != BackendSQLite || cfg.SessionTTL != 30*time.Minute || cfg.WatchContent || cfg.MaxConcurrentParse != 2 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_ClampsInvalidValues(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_PARSE", "-1")
	t.Setenv("SESSION_TTL", "bogus")
	t.Setenv("WATCH_DEBOUNCE", "0s")
	cfg := Load()
	if cfg.MaxConcurrentParse != 8 {
		t.Errorf("expected clamp to 8, got %d", cfg.MaxConcurrentParse)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected fallback ttl, got %v", cfg.SessionTTL)
	}
	if cfg.WatchDebounce != 250*time.Millisecond {
		t.Errorf("expected fallback debounce, got %v", cfg.WatchDebounce)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing api key", Config{StateBackend: BackendFile}, true},
		{"file", Config{WikinavAPIKey: "k", StateBackend: BackendFile}, false},
		{"memory", Config{WikinavAPIKey: "k", StateBackend: BackendMemory}, false},
		{"pathstore without key", Config{WikinavAPIKey: "k", StateBackend: BackendPathstore}, true},
		{"pathstore", Config{WikinavAPIKey: "k", StateBackend: BackendPathstore, PathstoreAPIKey: "p"}, false},
		{"unknown backend", Config{WikinavAPIKey: "k", StateBackend: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

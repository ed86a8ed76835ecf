package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boddenberg/agenda-bfa-go/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "CACHE_BACKEND", "STORAGE_BACKEND", "CACHE_TTL", "MAX_RETRIES"} {
		t.Setenv(k, "")
	}

	cfg := config.Load()

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.CacheBackend != config.CacheMemory {
		t.Errorf("expected memory cache, got %s", cfg.CacheBackend)
	}
	if cfg.StorageBackend != config.StorageSupabase {
		t.Errorf("expected supabase storage, got %s", cfg.StorageBackend)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected 5m cache ttl, got %s", cfg.CacheTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("MAX_RETRIES", "not-a-number")
	t.Setenv("STORAGE_BACKEND", config.StoragePostgres)

	cfg := config.Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.CacheTTL)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("invalid int should fall back to 3, got %d", cfg.MaxRetries)
	}
	if cfg.StorageBackend != config.StoragePostgres {
		t.Errorf("expected postgres, got %s", cfg.StorageBackend)
	}
}

func TestLoadDotEnv_DoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "LOG_LEVEL=debug\nAGENDA_TEST_ONLY_KEY=\"from-file\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_LEVEL", "warn")
	t.Cleanup(func() { os.Unsetenv("AGENDA_TEST_ONLY_KEY") })

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("load .env: %v", err)
	}

	if got := os.Getenv("LOG_LEVEL"); got != "warn" {
		t.Errorf("existing env must win, got %s", got)
	}
	if got := os.Getenv("AGENDA_TEST_ONLY_KEY"); got != "from-file" {
		t.Errorf("expected from-file, got %s", got)
	}
}

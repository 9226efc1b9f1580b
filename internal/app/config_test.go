package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "REDIS_ADDR", "FAMILY_LOCK_WAIT", "OTEL_SAMPLER_RATIO", "CORS_ALLOWED_ORIGINS", "LOG_REDACTION_ENABLED"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	if cfg.ListenAddr() != ":8080" {
		t.Fatalf("listen addr: %q", cfg.ListenAddr())
	}
	if cfg.DB.Driver != "postgres" || cfg.Redis.Addr != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.FamilyLockWait != 5*time.Second || cfg.FamilyLockTTL != 10*time.Second {
		t.Fatalf("lock defaults: ttl=%s wait=%s", cfg.FamilyLockTTL, cfg.FamilyLockWait)
	}
	if !cfg.LogRedaction {
		t.Fatalf("log redaction should default on")
	}
	if cfg.Otel.SampleRatio != 1 || cfg.CORSAllowedOrigins != nil {
		t.Fatalf("otel/cors defaults: %+v %v", cfg.Otel, cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("FAMILY_LOCK_WAIT", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg := LoadConfig()
	if cfg.ListenAddr() != "127.0.0.1:9000" {
		t.Fatalf("listen addr: %q", cfg.ListenAddr())
	}
	if cfg.DB.Driver != "sqlite" || cfg.FamilyLockWait != 250*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("cors: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadDotEnvKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("COACHDESK_TEST_A=from-file\nCOACHDESK_TEST_B=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("COACHDESK_TEST_A", "from-env")
	t.Setenv("COACHDESK_TEST_B", "")
	os.Unsetenv("COACHDESK_TEST_B")

	loaded, err := LoadDotEnv(path)
	if err != nil || !loaded {
		t.Fatalf("LoadDotEnv: loaded=%v err=%v", loaded, err)
	}
	if got := os.Getenv("COACHDESK_TEST_A"); got != "from-env" {
		t.Fatalf("existing value overridden: %q", got)
	}
	if got := os.Getenv("COACHDESK_TEST_B"); got != "from-file" {
		t.Fatalf("file value not loaded: %q", got)
	}

	loaded, err = LoadDotEnv(filepath.Join(dir, "missing.env"))
	if err != nil || loaded {
		t.Fatalf("missing file: loaded=%v err=%v", loaded, err)
	}
}

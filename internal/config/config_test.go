package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_Defaults(t *testing.T) {
	for _, key := range []string{"DATA_DIR", "STORE_BACKEND", "HTTP_ADDR", "AMQP_URL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("expected missing .env to be ignored, got: %v", err)
	}
	if cfg.DataDir != "." || cfg.StoreBackend != BackendFile || cfg.HTTPAddr != ":8080" || cfg.GRPCAddr != ":50051" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.AMQPURL != "" {
		t.Errorf("expected no AMQP url, got %q", cfg.AMQPURL)
	}
}

func TestLoadFile_DotEnv(t *testing.T) {
	unsetenv(t, "DATA_DIR")
	unsetenv(t, "STORE_BACKEND")
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DATA_DIR=/var/lib/delivery\nSTORE_BACKEND=redis\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DataDir != "/var/lib/delivery" || cfg.StoreBackend != BackendRedis {
		t.Errorf("expected values from .env, got %+v", cfg)
	}
}

func TestLoadFile_EnvironmentWins(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	path := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(path, []byte("HTTP_ADDR=:7070\n"), 0o644)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("expected environment to win, got %s", cfg.HTTPAddr)
	}
}

func TestLoadFile_UnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for unknown backend")
	}
}

// unsetenv removes key for the duration of the test. godotenv does not
// override variables that are already set, even to the empty string.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

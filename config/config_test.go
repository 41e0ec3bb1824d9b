package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_EmptyConfig(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Threshold() != 6.0 {
		t.Errorf("Threshold() = %v, want 6.0", cfg.Threshold())
	}
	if cfg.AutosaveInterval.Duration() != 0 {
		t.Errorf("AutosaveInterval = %v, want 0", cfg.AutosaveInterval.Duration())
	}
	if cfg.Storage.Backend != BackendJSON {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendJSON)
	}
	if cfg.Storage.Path != "students.json" {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, "students.json")
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
port: 9090
log_level: debug
below_threshold: 5.5
autosave_interval: 30s
storage:
  backend: sqlite
  path: /var/lib/gradebook/grades.db
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want %v", cfg.SlogLevel(), slog.LevelDebug)
	}
	if cfg.Threshold() != 5.5 {
		t.Errorf("Threshold() = %v, want 5.5", cfg.Threshold())
	}
	if cfg.AutosaveInterval.Duration() != 30*time.Second {
		t.Errorf("AutosaveInterval = %v, want 30s", cfg.AutosaveInterval.Duration())
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendSQLite)
	}
	if cfg.Storage.Path != "/var/lib/gradebook/grades.db" {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, "/var/lib/gradebook/grades.db")
	}
}

func TestParse_SQLiteDefaultPath(t *testing.T) {
	cfg, err := Parse([]byte("storage:\n  backend: sqlite\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Storage.Path != "students.db" {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, "students.db")
	}
}

func TestParse_ZeroThresholdIsKept(t *testing.T) {
	cfg, err := Parse([]byte("below_threshold: 0\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Threshold() != 0 {
		t.Errorf("Threshold() = %v, want 0", cfg.Threshold())
	}
}

func TestParse_EnvVarExpansion(t *testing.T) {
	t.Setenv("GRADEBOOK_TEST_DIR", "/data")

	cfg, err := Parse([]byte(`storage:
  path: ${GRADEBOOK_TEST_DIR}/students.json
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Storage.Path != "/data/students.json" {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, "/data/students.json")
	}
}

func TestParse_EnvVarDefault(t *testing.T) {
	cfg, err := Parse([]byte(`storage:
  path: ${GRADEBOOK_UNSET_VAR_XYZ:-fallback.json}
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Storage.Path != "fallback.json" {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, "fallback.json")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"invalid yaml", "port: [", "failed to parse YAML"},
		{"port too high", "port: 70000", "port must be between"},
		{"negative port", "port: -1", "port must be between"},
		{"bad log level", "log_level: loud", "log_level must be"},
		{"threshold too high", "below_threshold: 11", "below_threshold must be"},
		{"threshold negative", "below_threshold: -1", "below_threshold must be"},
		{"autosave too short", "autosave_interval: 100ms", "autosave_interval must be at least"},
		{"autosave invalid", "autosave_interval: soon", "invalid duration"},
		{"unknown backend", "storage:\n  backend: postgres", "backend must be"},
		{"unset env var", "storage:\n  path: ${GRADEBOOK_UNSET_VAR_XYZ}", "is not set"},
		{"empty after expansion", "storage:\n  path: ${GRADEBOOK_UNSET_VAR_XYZ:-}", "path is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("Parse() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("Load() error = %v, want containing 'failed to read'", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradebook.yaml")
	if err := os.WriteFile(path, []byte("port: 9191\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Port)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

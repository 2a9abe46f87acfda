package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdir changes the working directory for the duration of the test,
// restoring the original directory on cleanup (t.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("Chdir back: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	// Run from an empty dir so no stray queuectl.yaml or .env interferes.
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want 2", cfg.WorkerCount)
	}
	if cfg.DashboardAddr != ":8080" {
		t.Errorf("DashboardAddr = %q, want :8080", cfg.DashboardAddr)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
	if !strings.HasSuffix(cfg.StorePath, "queue.json") && !strings.HasSuffix(cfg.StorePath, "queuectl.json") {
		t.Errorf("unexpected default store path %q", cfg.StorePath)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	chdir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "queuectl.yaml")
	body := `
store_path: /tmp/q/queue.json
worker_count: 5
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorePath != "/tmp/q/queue.json" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("WorkerCount = %d, want 5", cfg.WorkerCount)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want debug/json", cfg.Logging)
	}
	// Untouched key keeps its default.
	if cfg.DashboardAddr != ":8080" {
		t.Errorf("DashboardAddr = %q, want default", cfg.DashboardAddr)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	chdir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "queuectl.yaml")
	if err := os.WriteFile(path, []byte("worker_count: 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QUEUECTL_WORKERS", "9")
	t.Setenv("QUEUECTL_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkerCount != 9 {
		t.Errorf("WorkerCount = %d, want env value 9", cfg.WorkerCount)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for explicitly named missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults are valid", func(c *Config) {}, true},
		{"zero workers", func(c *Config) { c.WorkerCount = 0 }, false},
		{"empty store path", func(c *Config) { c.StorePath = "" }, false},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, false},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, false},
		{"json format", func(c *Config) { c.Logging.Format = "json" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err == nil) != tt.wantOK {
				t.Fatalf("Validate() = %v, wantOK %v", err, tt.wantOK)
			}
		})
	}
}

func TestNewLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queuectl.log")
	logger, closer, err := NewLogger(Logging{Level: "debug", Format: "json", File: path})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if closer == nil {
		t.Fatal("expected a closer for file output")
	}
	logger.Info("hello", slog.String("k", "v"))
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log output %q not JSON formatted", data)
	}
}

func TestNewLoggerLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queuectl.log")
	logger, closer, err := NewLogger(Logging{Level: "error", Format: "text", File: path})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("dropped")
	logger.Error("kept")
	closer.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "dropped") {
		t.Error("info record not filtered at error level")
	}
	if !strings.Contains(string(data), "kept") {
		t.Error("error record missing")
	}
}

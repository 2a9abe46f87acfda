// Package config loads process-level configuration: where the shared queue
// file lives, how many execution loops a worker process runs, and how the
// process logs. Queue behavior knobs (max-retries, backoff-base, timeout,
// poll-interval) are deliberately NOT here — those live inside the store
// itself so every process sharing the file agrees on them.
//
// Precedence, lowest to highest: built-in defaults, then a queuectl.yaml
// file, then QUEUECTL_* environment variables (a .env file is honored).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name Load looks for when none is given.
const DefaultFile = "queuectl.yaml"

// Logging controls the process logger.
type Logging struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
	File   string `yaml:"file" envconfig:"LOG_FILE"`
}

// Config is the full process configuration.
type Config struct {
	StorePath     string  `yaml:"store_path" envconfig:"STORE"`
	WorkerCount   int     `yaml:"worker_count" envconfig:"WORKERS"`
	DashboardAddr string  `yaml:"dashboard_addr" envconfig:"DASHBOARD_ADDR"`
	Logging       Logging `yaml:"logging"`
}

func defaults() *Config {
	return &Config{
		StorePath:     defaultStorePath(),
		WorkerCount:   2,
		DashboardAddr: ":8080",
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// defaultStorePath puts the queue file under the user's home directory so
// every invocation of the CLI finds the same file regardless of cwd.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "queuectl.json"
	}
	return filepath.Join(home, ".queuectl", "queue.json")
}

// Load builds the configuration from defaults, then the YAML file at path
// (DefaultFile when path is empty; a missing file is not an error), then
// the environment.
func Load(path string) (*Config, error) {
	cfg := defaults()

	// Env vars may come from a local .env; absence is fine.
	_ = godotenv.Load(".env")

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file, defaults apply.
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := envconfig.Process("queuectl", cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no subsystem could act on.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("config: store path is required")
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("config: worker count must be at least 1, got %d", c.WorkerCount)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q (valid: debug, info, warn, error)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: invalid log format %q (valid: text, json)", c.Logging.Format)
	}
	return nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the tracker needs at runtime. It is persisted as
// JSON next to the user's config dir and can be overridden per-field from
// the environment.
type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	// Live refresh cadence.
	PollIntervalSeconds   int `json:"poll_interval_seconds"`
	ReconcileDelaySeconds int `json:"reconcile_delay_seconds"`

	// Remote engine endpoint; empty means read the local sqlite store.
	EngineBaseURL        string `json:"engine_base_url"`
	EngineTimeoutSeconds int    `json:"engine_timeout_seconds"`

	CacheEnabled    bool `json:"cache_enabled"`
	CacheTTLSeconds int  `json:"cache_ttl_seconds"`

	Debug bool `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file, then let the environment
	// override the defaults.
	_ = godotenv.Load()
	cfg.loadFromEnv()

	return cfg
}

func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		ProjectDir:   root,
		ResultsDir:   filepath.Join(root, "results"),
		DataDir:      filepath.Join(root, "data"),
		DataCacheDir: filepath.Join(root, "data", "cache"),

		PollIntervalSeconds:   5,
		ReconcileDelaySeconds: 1,

		EngineTimeoutSeconds: 30,

		CacheEnabled:    true,
		CacheTTLSeconds: 30,
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("POLL_INTERVAL_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.PollIntervalSeconds = v
		}
	}
	if val := os.Getenv("RECONCILE_DELAY_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.ReconcileDelaySeconds = v
		}
	}

	if val := os.Getenv("ENGINE_BASE_URL"); val != "" {
		c.EngineBaseURL = val
	}
	if val := os.Getenv("ENGINE_TIMEOUT_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.EngineTimeoutSeconds = v
		}
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("CACHE_TTL_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.CacheTTLSeconds = v
		}
	}

	if val := os.Getenv("CORTEXTRACK_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

func (c *Config) Validate() error {
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll_interval_seconds must be positive, got %d", c.PollIntervalSeconds)
	}
	if c.ReconcileDelaySeconds <= 0 {
		return fmt.Errorf("reconcile_delay_seconds must be positive, got %d", c.ReconcileDelaySeconds)
	}
	if c.EngineTimeoutSeconds <= 0 {
		return fmt.Errorf("engine_timeout_seconds must be positive, got %d", c.EngineTimeoutSeconds)
	}
	return nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) ReconcileDelay() time.Duration {
	return time.Duration(c.ReconcileDelaySeconds) * time.Second
}

func (c *Config) EngineTimeout() time.Duration {
	return time.Duration(c.EngineTimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

func loadConfigFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Get returns the current config from the default manager, falling back to
// in-memory defaults when no manager could be created.
func Get() Config {
	if mgr := DefaultManager(); mgr != nil {
		return mgr.Get()
	}
	return *DefaultConfig()
}

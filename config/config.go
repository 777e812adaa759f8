// Package config loads marklab configuration from TOML files with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all tunable settings
type Config struct {
	// Network
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	MaxRetries        int     `toml:"max_retries"`
	UserAgent         string  `toml:"user_agent"`

	// Chunking
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`

	// Cache
	CacheEnabled    bool   `toml:"cache_enabled"`
	CachePath       string `toml:"cache_path"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`

	// Processing
	ParallelWorkers int    `toml:"parallel_workers"`
	OutputFormat    string `toml:"output_format"`
}

// Default returns the standard configuration
func Default() Config {
	return Config{
		RequestsPerSecond: 1.0,
		TimeoutSeconds:    30,
		MaxRetries:        3,
		UserAgent:         "marklab/1.0",
		ChunkSize:         1000,
		ChunkOverlap:      200,
		CacheEnabled:      true,
		CachePath:         ".marklab_cache/requests.db",
		CacheTTLSeconds:   3600,
		ParallelWorkers:   4,
		OutputFormat:      "markdown",
	}
}

// Load reads configuration from the TOML file at path, applied over the
// defaults, then applies environment overrides. A missing file is not an
// error; the defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from MARKLAB_* environment variables. Malformed
// values are ignored rather than fatal.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("MARKLAB_REQUESTS_PER_SECOND"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = f
		}
	}
	envInt("MARKLAB_TIMEOUT_SECONDS", &c.TimeoutSeconds)
	envInt("MARKLAB_MAX_RETRIES", &c.MaxRetries)
	envInt("MARKLAB_CHUNK_SIZE", &c.ChunkSize)
	envInt("MARKLAB_CHUNK_OVERLAP", &c.ChunkOverlap)
	envInt("MARKLAB_CACHE_TTL_SECONDS", &c.CacheTTLSeconds)
	envInt("MARKLAB_PARALLEL_WORKERS", &c.ParallelWorkers)

	if v, ok := os.LookupEnv("MARKLAB_CACHE_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.CacheEnabled = b
		}
	}
	if v, ok := os.LookupEnv("MARKLAB_CACHE_PATH"); ok && v != "" {
		c.CachePath = v
	}
	if v, ok := os.LookupEnv("MARKLAB_USER_AGENT"); ok && v != "" {
		c.UserAgent = v
	}
	if v, ok := os.LookupEnv("MARKLAB_OUTPUT_FORMAT"); ok && v != "" {
		c.OutputFormat = v
	}
}

func envInt(name string, dst *int) {
	if v, ok := os.LookupEnv(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate checks field ranges and cross-field constraints
func (c *Config) Validate() error {
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %v", c.RequestsPerSecond)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap %d must be smaller than chunk_size %d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.ParallelWorkers <= 0 {
		return fmt.Errorf("parallel_workers must be positive, got %d", c.ParallelWorkers)
	}
	if c.CacheEnabled && c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("cache_ttl_seconds must be positive when cache is enabled, got %d", c.CacheTTLSeconds)
	}
	return nil
}

// Timeout returns the request timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the cache entry lifetime as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

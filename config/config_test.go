package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 200 {
		t.Errorf("Unexpected chunking defaults: %+v", cfg)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL() = %v", cfg.CacheTTL())
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Missing file should not be an error: %v", err)
	}
	if cfg.RequestsPerSecond != 1.0 {
		t.Errorf("Unexpected config: %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
requests_per_second = 2.5
chunk_size = 500
chunk_overlap = 50
output_format = "json"
cache_enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Writing config failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.RequestsPerSecond != 2.5 {
		t.Errorf("requests_per_second = %v", cfg.RequestsPerSecond)
	}
	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 50 {
		t.Errorf("Chunking not loaded: %+v", cfg)
	}
	if cfg.OutputFormat != "json" {
		t.Errorf("output_format = %q", cfg.OutputFormat)
	}
	if cfg.CacheEnabled {
		t.Error("cache_enabled should be false")
	}
	// Unset fields keep defaults
	if cfg.MaxRetries != 3 {
		t.Errorf("max_retries should keep default, got %d", cfg.MaxRetries)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MARKLAB_CHUNK_SIZE", "750")
	t.Setenv("MARKLAB_CACHE_ENABLED", "false")
	t.Setenv("MARKLAB_USER_AGENT", "custom-agent/2.0")
	t.Setenv("MARKLAB_MAX_RETRIES", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ChunkSize != 750 {
		t.Errorf("Env override ignored: chunk_size = %d", cfg.ChunkSize)
	}
	if cfg.CacheEnabled {
		t.Error("Env override ignored: cache_enabled")
	}
	if cfg.UserAgent != "custom-agent/2.0" {
		t.Errorf("Env override ignored: user_agent = %q", cfg.UserAgent)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("Malformed env value should be ignored, got %d", cfg.MaxRetries)
	}
}

func TestLoad_InvalidFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("chunk_size = -5\n"), 0o644); err != nil {
		t.Fatalf("Writing config failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Invalid configuration should fail validation")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rps", func(c *Config) { c.RequestsPerSecond = 0 }},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }},
		{"overlap >= size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }},
		{"zero workers", func(c *Config) { c.ParallelWorkers = 0 }},
		{"zero ttl with cache", func(c *Config) { c.CacheTTLSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	valid := Default()
	if err := valid.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

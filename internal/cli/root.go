// Package cli implements the marklab command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marklab/marklab/config"
	"github.com/marklab/marklab/fetch"
)

var (
	cfgPath   string
	rateLimit float64

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "marklab",
	Short: "Convert web pages to Markdown, JSON, or XML",
	Long: `marklab fetches web pages and converts them to clean Markdown, JSON,
or XML, with optional semantic chunking for RAG pipelines and sitemap-driven
site conversion.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		cfg = loaded

		if cmd.Flags().Changed("rate-limit") {
			cfg.RequestsPerSecond = rateLimit
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to TOML config file")
	rootCmd.PersistentFlags().Float64Var(&rateLimit, "rate-limit", 1.0, "maximum requests per second")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// newFetchClient builds a client from the loaded configuration, attaching
// the response cache when enabled
func newFetchClient() (*fetch.Client, func(), error) {
	fc := fetch.Config{
		Timeout:           cfg.Timeout(),
		MaxRetries:        cfg.MaxRetries,
		RetryBaseDelay:    fetch.DefaultConfig().RetryBaseDelay,
		RequestsPerSecond: cfg.RequestsPerSecond,
		UserAgent:         cfg.UserAgent,
	}

	client := fetch.NewClient(fc)
	cleanup := func() {}

	if cfg.CacheEnabled {
		cache, err := fetch.NewCache(cfg.CachePath, cfg.CacheTTL())
		if err != nil {
			return nil, nil, fmt.Errorf("opening response cache: %w", err)
		}
		client.WithCache(cache)
		cleanup = func() { cache.Close() }
	}

	return client, cleanup, nil
}

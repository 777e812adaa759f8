package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marklab/marklab/scrape"
	"github.com/marklab/marklab/sitemap"
)

var (
	sitemapMinPriority float64
	sitemapInclude     []string
	sitemapExclude     []string
	sitemapLimit       int
	sitemapListOnly    bool
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap <base-url>",
	Short: "Convert a site's pages discovered through its sitemap",
	Long: `Discovers the site's sitemap (via robots.txt or well-known locations),
filters the listed URLs, and converts each page. Use --list to preview the
URLs without fetching any pages.`,
	Args: cobra.ExactArgs(1),
	RunE: runSitemap,
}

func init() {
	sitemapCmd.Flags().Float64Var(&sitemapMinPriority, "min-priority", 0, "skip URLs with a declared priority below this value")
	sitemapCmd.Flags().StringSliceVar(&sitemapInclude, "include", nil, "regex patterns a URL must match")
	sitemapCmd.Flags().StringSliceVar(&sitemapExclude, "exclude", nil, "regex patterns that exclude a URL")
	sitemapCmd.Flags().IntVar(&sitemapLimit, "limit", 0, "maximum number of URLs to convert (0 = no limit)")
	sitemapCmd.Flags().BoolVar(&sitemapListOnly, "list", false, "list matching URLs without converting")

	sitemapCmd.Flags().StringVarP(&convertFormat, "format", "f", "markdown", "output format: markdown, json, or xml")
	sitemapCmd.Flags().StringVarP(&convertOutput, "output", "o", "output", "output directory")
	sitemapCmd.Flags().IntVar(&convertChunkSize, "chunk-size", 0, "chunk size in characters (default from config)")
	sitemapCmd.Flags().IntVar(&convertOverlap, "chunk-overlap", -1, "chunk overlap in characters (default from config)")
	sitemapCmd.Flags().BoolVar(&convertSaveChunks, "save-chunks", false, "also write RAG chunks as JSON Lines")
	sitemapCmd.Flags().IntVar(&convertParallel, "parallel", 0, "concurrent fetches (default from config)")

	rootCmd.AddCommand(sitemapCmd)
}

func runSitemap(cmd *cobra.Command, args []string) error {
	filter, err := sitemap.CompileFilter(sitemapMinPriority, sitemapInclude, sitemapExclude, sitemapLimit)
	if err != nil {
		return err
	}

	opts, err := scrapeOptions()
	if err != nil {
		return err
	}

	client, cleanup, err := newFetchClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()

	entries, err := sitemap.NewParser(client).Discover(ctx, args[0])
	if err != nil {
		return err
	}

	entries = filter.Apply(entries)
	if len(entries) == 0 {
		return fmt.Errorf("no sitemap URLs match the given filters")
	}

	if sitemapListOnly {
		for _, entry := range entries {
			cmd.Println(entry.Loc)
		}
		return nil
	}

	urls := make([]string, len(entries))
	for i, entry := range entries {
		urls[i] = entry.Loc
	}

	scraper, err := scrape.New(client, opts)
	if err != nil {
		return err
	}

	results, err := scraper.ScrapeAll(ctx, urls, parallelism())
	if err != nil {
		return err
	}
	return saveResults(cmd, scraper, results, convertOutput)
}

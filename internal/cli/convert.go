package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marklab/marklab/format"
	"github.com/marklab/marklab/rag"
	"github.com/marklab/marklab/scrape"
)

var (
	convertFormat     string
	convertOutput     string
	convertChunkSize  int
	convertOverlap    int
	convertSaveChunks bool
	convertParallel   int
)

var convertCmd = &cobra.Command{
	Use:   "convert [url...]",
	Short: "Convert one or more pages",
	Long: `Fetches each URL and converts it to the requested format. A single URL
with no output directory prints to stdout; otherwise one file per page is
written under the output directory, named after the page URL.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "markdown", "output format: markdown, json, or xml")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output directory")
	convertCmd.Flags().IntVar(&convertChunkSize, "chunk-size", 0, "chunk size in characters (default from config)")
	convertCmd.Flags().IntVar(&convertOverlap, "chunk-overlap", -1, "chunk overlap in characters (default from config)")
	convertCmd.Flags().BoolVar(&convertSaveChunks, "save-chunks", false, "also write RAG chunks as JSON Lines")
	convertCmd.Flags().IntVar(&convertParallel, "parallel", 0, "concurrent fetches (default from config)")
	rootCmd.AddCommand(convertCmd)
}

// scrapeOptions assembles scraper options from config and flags
func scrapeOptions() (scrape.Options, error) {
	of, err := format.ParseFormat(convertFormat)
	if err != nil {
		return scrape.Options{}, err
	}

	opts := scrape.Options{
		Format:       of,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		SaveChunks:   convertSaveChunks,
		ChunkFormat:  rag.ExportFormatJSONL,
	}
	if convertChunkSize > 0 {
		opts.ChunkSize = convertChunkSize
	}
	if convertOverlap >= 0 {
		opts.ChunkOverlap = convertOverlap
	}
	return opts, nil
}

func parallelism() int {
	if convertParallel > 0 {
		return convertParallel
	}
	return cfg.ParallelWorkers
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts, err := scrapeOptions()
	if err != nil {
		return err
	}

	client, cleanup, err := newFetchClient()
	if err != nil {
		return err
	}
	defer cleanup()

	scraper, err := scrape.New(client, opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if len(args) == 1 && convertOutput == "" && !convertSaveChunks {
		result, err := scraper.ScrapeURL(ctx, args[0])
		if err != nil {
			return err
		}
		cmd.Println(result.Output)
		return nil
	}

	outputDir := convertOutput
	if outputDir == "" {
		outputDir = "output"
	}

	results, err := scraper.ScrapeAll(ctx, args, parallelism())
	if err != nil {
		return err
	}
	return saveResults(cmd, scraper, results, outputDir)
}

// saveResults writes successful results and reports failures without
// aborting the batch
func saveResults(cmd *cobra.Command, scraper *scrape.Scraper, results []*scrape.Result, outputDir string) error {
	var failed int
	for _, result := range results {
		if result.Err != nil {
			failed++
			cmd.PrintErrf("failed: %s: %v\n", result.URL, result.Err)
			continue
		}
		if err := scraper.SaveResult(result, outputDir); err != nil {
			failed++
			cmd.PrintErrf("failed: %s: %v\n", result.URL, err)
		}
	}

	cmd.Printf("converted %d/%d pages to %s\n", len(results)-failed, len(results), outputDir)
	if failed == len(results) {
		return fmt.Errorf("all %d pages failed", failed)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/boycotts/internal/model"
	"github.com/ppiankov/boycotts/internal/pipeline"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	sourceURL     string
	outDir        string
	boycottsFile  string
	evilFile      string
	timeout       time.Duration
	userAgent     string
	maxBytes      int64
	noCache       bool
	respectRobots bool
	httpProxy     string
	httpsProxy    string
	sampleSize    int
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch the boycotts page and write both JSON files",
	Long: `Scrape fetches the boycotts page once and:
- Flattens the markup into lines of text
- Reconstructs one record per "Category:" marker
- Infers support tags for each company
- Writes the raw archive and the evil-companies lookup

Example:
  boycotts scrape
  boycotts scrape --out-dir ./data --no-cache
  boycotts scrape --respect-robots --timeout 1m`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	defaults := model.DefaultConfig()

	// Source and output flags
	scrapeCmd.Flags().StringVar(&sourceURL, "url", defaults.Source.URL, "boycotts page URL")
	addOutputFlags(scrapeCmd)

	// HTTP flags
	scrapeCmd.Flags().DurationVar(&timeout, "timeout", defaults.HTTP.Timeout, "request timeout")
	scrapeCmd.Flags().StringVar(&userAgent, "ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	scrapeCmd.Flags().Int64Var(&maxBytes, "max-bytes", defaults.HTTP.MaxBodyBytes, "max response bytes to read")
	scrapeCmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore cached pages (the fresh page is still cached)")
	scrapeCmd.Flags().BoolVar(&respectRobots, "respect-robots", false, "abort when robots.txt disallows the page")
	scrapeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	scrapeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// addOutputFlags registers the flags shared by scrape and extract
func addOutputFlags(cmd *cobra.Command) {
	defaults := model.DefaultConfig().Output
	cmd.Flags().StringVar(&outDir, "out-dir", defaults.Dir, "output directory")
	cmd.Flags().StringVar(&boycottsFile, "boycotts-file", defaults.BoycottsFile, "raw archive file name")
	cmd.Flags().StringVar(&evilFile, "evil-file", defaults.EvilCompaniesFile, "evil-companies lookup file name")
	cmd.Flags().IntVar(&sampleSize, "sample", defaults.SampleSize, "number of sample entries to print")
}

// buildConfig resolves the effective configuration; explicitly set flags win
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Source.URL = sourceURL
	}
	if flags.Changed("out-dir") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("boycotts-file") {
		cfg.Output.BoycottsFile = boycottsFile
	}
	if flags.Changed("evil-file") {
		cfg.Output.EvilCompaniesFile = evilFile
	}
	if flags.Changed("sample") {
		cfg.Output.SampleSize = sampleSize
	}
	if flags.Changed("timeout") {
		cfg.HTTP.Timeout = timeout
	}
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if flags.Changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if flags.Changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if flags.Changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Refresh = noCache
	}
	if flags.Changed("respect-robots") {
		cfg.Robots.Enforce = respectRobots
	}
	cfg.Output.Verbose = verbose

	return cfg, nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	log.Debug().
		Str("url", cfg.Source.URL).
		Dur("timeout", cfg.HTTP.Timeout).
		Bool("cache", cfg.Cache.Enabled && !cfg.Cache.Refresh).
		Bool("robots_enforce", cfg.Robots.Enforce).
		Msg("starting scrape")

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTP.Timeout)
	defer cancel()

	result, _, err := pipeline.NewPipeline(cfg).Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pipeline.RenderSample(out, result.Archive.Boycotts, cfg.Output.SampleSize)
	_, _ = fmt.Fprintln(out, "\nScraping complete!")
	return nil
}

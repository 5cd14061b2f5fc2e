package commands

import (
	"log/slog"
	"os"
	"time"
	"trustharvest/lib/configutil"
	"trustharvest/lib/scrapers/trustpilot"
	"trustharvest/lib/telemetry"
	"trustharvest/services/harvest"

	"github.com/spf13/cobra"
)

var (
	minReviews        *int
	reviewsPerCompany *int
	outputDir         *string
	debug             *bool
)

func init() {
	minReviews = scrapeCmd.Flags().Int("min-reviews", 1000, "Only keep companies with at least this many reviews.")
	reviewsPerCompany = scrapeCmd.Flags().Int("reviews-per-company", 500, "Target review count per company.")
	outputDir = scrapeCmd.Flags().String("out", "Trustpilot_data", "Directory to write the CSV datasets to.")
	debug = scrapeCmd.Flags().Bool("debug", false, "Enable debug logging.")
	rootCmd.AddCommand(scrapeCmd)
}

// optional config.json5 overrides for the fixed run parameters
type fileConfig struct {
	ListingURLs []string `json:"listing_urls"`
	OutputDir   string   `json:"output_dir"`
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--min-reviews <n>] [--reviews-per-company <n>] [--out <dir>]",
	Short: "Discovers companies and harvests their profiles and reviews into CSV datasets.",
	Run: func(cmd *cobra.Command, args []string) {
		if *debug {
			telemetry.InitSlog(true)
		}

		cfg := harvest.DefaultConfig()
		cfg.MinReviews = *minReviews
		cfg.ReviewsPerCompany = *reviewsPerCompany
		cfg.OutputDir = *outputDir

		if overrides, err := configutil.ReadConfig[fileConfig]("config.json5"); err == nil {
			if len(overrides.ListingURLs) > 0 {
				cfg.ListingURLs = overrides.ListingURLs
			}
			if overrides.OutputDir != "" {
				cfg.OutputDir = overrides.OutputDir
			}
		} else if !os.IsNotExist(err) {
			fatal("failed to read config", err)
		}

		client, err := trustpilot.NewClient(trustpilot.ClientOptions{
			Pacing:  trustpilot.DefaultPacing(),
			Timeout: 15 * time.Second,
		})
		if err != nil {
			fatal("failed to initialize client", err)
		}

		t1 := time.Now()
		result, err := harvest.Run(cmd.Context(), client, cfg)
		if err != nil {
			fatal("harvest failed", err)
		}
		t2 := time.Now()

		slog.Info("harvest time",
			"seconds", t2.Sub(t1).Seconds(),
			"companies", len(result.Profiles),
			"reviews", len(result.Reviews),
		)
	},
}

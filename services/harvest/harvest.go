// Package harvest sequences the full pipeline: company discovery, then
// per-company profile and review extraction, then dataset persistence
// and a console summary.
package harvest

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"trustharvest/lib/dataset"
	"trustharvest/lib/scrapers/trustpilot"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/harvest")

var ErrNoCompanies = errors.New("no companies discovered")

type Config struct {
	// category listing pages to scan, in order
	ListingURLs []string `json:"listing_urls"`
	OutputDir   string   `json:"output_dir"`
	// discovery threshold on a company's review count
	MinReviews int `json:"min_reviews"`
	// target review count per company
	ReviewsPerCompany int `json:"reviews_per_company"`
	// pause between companies, zero in tests
	CompanyRest time.Duration `json:"-"`
}

func DefaultConfig() Config {
	return Config{
		ListingURLs: []string{
			"https://www.trustpilot.com/categories/appliance_store?sort=reviews_count",
			"https://www.trustpilot.com/categories/appliance_store?page=2&sort=reviews_count",
			"https://www.trustpilot.com/categories/appliance_store?page=3&sort=reviews_count",
		},
		OutputDir:         "Trustpilot_data",
		MinReviews:        1000,
		ReviewsPerCompany: 500,
		CompanyRest:       10 * time.Second,
	}
}

type Result struct {
	Companies []trustpilot.Candidate
	Profiles  []trustpilot.Profile
	Reviews   []trustpilot.Review
	Paths     dataset.Paths
}

// Run executes the pipeline end to end. The only failure modes are an
// empty discovery result and a dataset write error; everything upstream
// degrades to defaults and keeps going.
func Run(ctx context.Context, client *trustpilot.Client, cfg Config) (Result, error) {
	ctx, span := tracer.Start(ctx, "harvest:Run")
	defer span.End()

	slog.InfoContext(ctx, "starting harvest",
		"min_reviews", cfg.MinReviews,
		"reviews_per_company", cfg.ReviewsPerCompany,
	)

	companies := client.Discover(ctx, cfg.ListingURLs, cfg.MinReviews)
	if len(companies) == 0 {
		return Result{}, ErrNoCompanies
	}

	var profiles []trustpilot.Profile
	var reviews []trustpilot.Review

	for i, company := range companies {
		slog.InfoContext(ctx, "processing company",
			"index", i+1,
			"total", len(companies),
			"name", company.Name,
			"listed_reviews", company.ReviewCount,
		)

		profiles = append(profiles, client.Profile(ctx, company.ProfileURL, company.Name))
		reviews = append(reviews, client.Reviews(ctx, company.ProfileURL, company.Name, cfg.ReviewsPerCompany)...)

		if i < len(companies)-1 && cfg.CompanyRest > 0 {
			slog.InfoContext(ctx, "resting between companies", "duration", cfg.CompanyRest)
			time.Sleep(cfg.CompanyRest)
		}
	}

	paths, err := dataset.Write(cfg.OutputDir, profiles, reviews)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Companies: companies,
		Profiles:  profiles,
		Reviews:   reviews,
		Paths:     paths,
	}
	PrintSummary(result)
	return result, nil
}

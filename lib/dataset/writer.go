// Package dataset serializes harvested profiles and reviews into
// timestamped CSV files.
package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"trustharvest/lib/scrapers/trustpilot"
	"trustharvest/lib/topics"
)

// Paths holds the written file locations. A path is empty when its
// collection was empty and no file was produced.
type Paths struct {
	Profiles string
	Reviews  string
}

var profileColumns = []string{
	"company_name", "trustpilot_url", "scraped_at", "overall_rating",
	"trust_category", "total_reviews", "claimed_profile", "num_locations",
	"business_type", "website_url", "negative_response_rate", "response_time",
	"verified_company", "phone", "email", "address", "founded_year",
	"has_active_subscription", "company_description",
}

const timestampLayout = "20060102_150405"
const scrapedAtLayout = "2006-01-02T15:04:05"

// Write persists both collections under dir, naming each file with a
// shared second-precision timestamp so consecutive runs never collide.
func Write(dir string, profiles []trustpilot.Profile, reviews []trustpilot.Review) (Paths, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Paths{}, err
	}
	stamp := time.Now().Format(timestampLayout)

	var out Paths
	if len(profiles) > 0 {
		path := filepath.Join(dir, fmt.Sprintf("company_profiles_%s.csv", stamp))
		if err := writeProfiles(path, profiles); err != nil {
			return out, err
		}
		out.Profiles = path
		slog.Info("profiles saved", "path", path, "rows", len(profiles))
	}
	if len(reviews) > 0 {
		path := filepath.Join(dir, fmt.Sprintf("reviews_%s.csv", stamp))
		if err := writeReviews(path, reviews); err != nil {
			return out, err
		}
		out.Reviews = path
		slog.Info("reviews saved", "path", path, "rows", len(reviews))
	}
	return out, nil
}

func writeProfiles(path string, profiles []trustpilot.Profile) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(profileColumns); err != nil {
		return err
	}
	for _, p := range profiles {
		row := []string{
			p.Name,
			p.ProfileURL,
			p.ScrapedAt.Format(scrapedAtLayout),
			formatOptionalFloat(p.OverallRating),
			p.TrustCategory,
			strconv.Itoa(p.TotalReviews),
			strconv.FormatBool(p.ClaimedProfile),
			strconv.Itoa(p.NumLocations),
			p.BusinessType,
			p.WebsiteURL,
			p.NegativeResponseRate,
			p.ResponseTime,
			strconv.FormatBool(p.VerifiedCompany),
			p.Phone,
			p.Email,
			p.Address,
			formatOptionalInt(p.FoundedYear),
			strconv.FormatBool(p.HasActiveSubscription),
			p.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func reviewColumns() []string {
	columns := []string{
		"company_name", "reviewer_name", "reviewer_location", "rating",
		"review_date", "review_title", "review_text", "review_length",
		"verified_review", "has_company_reply", "topic_tags",
	}
	for _, topic := range topics.Taxonomy {
		columns = append(columns, "mentions_"+topic.Name)
	}
	return append(columns, "page_number", "scraped_at")
}

func writeReviews(path string, reviews []trustpilot.Review) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(reviewColumns()); err != nil {
		return err
	}
	for _, r := range reviews {
		row := []string{
			r.CompanyName,
			r.ReviewerName,
			r.ReviewerLocation,
			r.Rating,
			r.Date,
			r.Title,
			r.Text,
			strconv.Itoa(r.Length),
			strconv.FormatBool(r.Verified),
			strconv.FormatBool(r.HasCompanyReply),
			r.TopicTags,
		}
		for _, topic := range topics.Taxonomy {
			row = append(row, strconv.FormatBool(r.Mentions[topic.Name]))
		}
		row = append(row, strconv.Itoa(r.PageNumber), r.ScrapedAt.Format(scrapedAtLayout))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

package trustpilot

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var (
	ratingValueRegex  = regexp.MustCompile(`"ratingValue"\s*:\s*"?(\d\.?\d?)"?`)
	ratingNearReviews = regexp.MustCompile(`Reviews\s+[\d,]+\s*[•·]\s*(\d\.\d)`)
	trustCategoryRe   = regexp.MustCompile(`(?i)(Excellent|Great|Good|Average|Poor|Bad)\s*\n?\s*[\d,]+K?\s+reviews`)
	totalReviewsRe    = regexp.MustCompile(`Reviews\s+([\d,]+)`)
	numLocationsRe    = regexp.MustCompile(`(?i)(\d+)\s+Locations?`)
	repliedToRe       = regexp.MustCompile(`(?i)Replied to\s+(\d+%)`)
	responseTimeRe    = regexp.MustCompile(`(?i)Typically replies within\s+(\d+\s*\w+)`)
	phoneRe           = regexp.MustCompile(`(\d{3}[-.\s]?\d{3}[-.\s]?\d{4})`)
	emailRe           = regexp.MustCompile(`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
	addressZipRe      = regexp.MustCompile(`(\d+[^,\n]+,\s*\d{5},?\s*[^,\n]+,\s*United States)`)
	addressLooseRe    = regexp.MustCompile(`(\d+[^,\n]+,\s*[^,\n]+,\s*United States)`)
	foundedYearRe     = regexp.MustCompile(`[Ff]ounded\s+(?:in\s+)?(\d{4})`)
)

const descriptionLimit = 500

// Profile scrapes a company's profile page. It never fails: any fetch or
// parse problem yields a record holding the documented defaults for every
// field besides name, url and the scrape timestamp.
func (c *Client) Profile(ctx context.Context, link, name string) Profile {
	ctx, span := tracer.Start(ctx, "client:Profile")
	defer span.End()

	slog.InfoContext(ctx, "scraping profile", "company", name)

	p := Profile{
		Name:                 name,
		ProfileURL:           link,
		ScrapedAt:            time.Now(),
		TrustCategory:        "Unknown",
		NumLocations:         1,
		BusinessType:         "Unknown",
		NegativeResponseRate: "Unknown",
		ResponseTime:         "Unknown",
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch profile page", "company", name, "err", err)
		span.RecordError(err)
		return p
	}
	if res.IsError() {
		slog.ErrorContext(ctx, "profile page returned error status", "company", name, "status", res.Status())
		span.SetStatus(codes.Error, "profile page returned error status")
		return p
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse profile page", "company", name, "err", err)
		span.RecordError(err)
		return p
	}
	pageText := doc.Text()

	if rating, ok := extractRating(doc, pageText); ok {
		p.OverallRating = &rating
	}

	if groups := trustCategoryRe.FindStringSubmatch(pageText); groups != nil {
		p.TrustCategory = groups[1]
	}
	if groups := totalReviewsRe.FindStringSubmatch(pageText); groups != nil {
		if n, err := strconv.Atoi(strings.ReplaceAll(groups[1], ",", "")); err == nil {
			p.TotalReviews = n
		}
	}
	p.ClaimedProfile = strings.Contains(pageText, "Claimed profile")
	if groups := numLocationsRe.FindStringSubmatch(pageText); groups != nil {
		if n, err := strconv.Atoi(groups[1]); err == nil {
			p.NumLocations = n
		}
	}
	if businessType, ok := extractBusinessType(doc); ok {
		p.BusinessType = businessType
	}
	if website, ok := extractWebsiteURL(doc); ok {
		p.WebsiteURL = website
	}
	if groups := repliedToRe.FindStringSubmatch(pageText); groups != nil {
		p.NegativeResponseRate = groups[1]
	}
	if groups := responseTimeRe.FindStringSubmatch(pageText); groups != nil {
		p.ResponseTime = groups[1]
	}
	p.VerifiedCompany = strings.Contains(pageText, "Verified company")
	if groups := phoneRe.FindStringSubmatch(pageText); groups != nil {
		p.Phone = groups[1]
	}
	if groups := emailRe.FindStringSubmatch(pageText); groups != nil {
		p.Email = groups[1]
	}
	if addr, ok := extractAddress(pageText); ok {
		p.Address = addr
	}
	if groups := foundedYearRe.FindStringSubmatch(pageText); groups != nil {
		if year, err := strconv.Atoi(groups[1]); err == nil {
			p.FoundedYear = &year
		}
	}
	p.HasActiveSubscription = strings.Contains(pageText, "Active Trustpilot subscription")
	if desc, ok := extractDescription(pageText, name); ok {
		p.Description = desc
	}

	slog.InfoContext(ctx, "profile extracted",
		"company", name,
		"rating", p.OverallRating,
		"trust_category", p.TrustCategory,
		"locations", p.NumLocations,
	)
	return p
}

// extractRating tries three methods in order, each only when the
// previous found nothing: a regex over raw JSON-LD script blocks, a
// full JSON-LD parse with a recursive ratingValue search, and finally a
// regex over the page text next to the "Reviews" heading.
func extractRating(doc *goquery.Document, pageText string) (float64, bool) {
	scripts := doc.Find(`script[type="application/ld+json"]`)

	var rating float64
	found := false
	scripts.EachWithBreak(func(_ int, script *goquery.Selection) bool {
		groups := ratingValueRegex.FindStringSubmatch(script.Text())
		if groups == nil {
			return true
		}
		value, err := strconv.ParseFloat(groups[1], 64)
		if err != nil {
			return true
		}
		rating = value
		found = true
		return false
	})
	if found {
		return rating, true
	}

	scripts.EachWithBreak(func(_ int, script *goquery.Selection) bool {
		var data Value
		if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
			return true
		}
		node, ok := data.FindKey("ratingValue")
		if !ok {
			return true
		}
		value, ok := scalarToFloat(node.Scalar)
		if !ok {
			return true
		}
		rating = value
		found = true
		return false
	})
	if found {
		return rating, true
	}

	if groups := ratingNearReviews.FindStringSubmatch(pageText); groups != nil {
		if value, err := strconv.ParseFloat(groups[1], 64); err == nil {
			return value, true
		}
	}
	return 0, false
}

func scalarToFloat(scalar any) (float64, bool) {
	switch v := scalar.(type) {
	case float64:
		return v, true
	case string:
		value, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return value, true
	}
	return 0, false
}

func extractBusinessType(doc *goquery.Document) (string, bool) {
	result := ""
	doc.Find(`a[href*="/categories/"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		text := strings.TrimSpace(link.Text())
		if strings.Contains(text, "Store") || strings.Contains(text, "Shop") {
			result = text
			return false
		}
		return true
	})
	return result, result != ""
}

func extractWebsiteURL(doc *goquery.Document) (string, bool) {
	result := ""
	doc.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if !strings.Contains(link.Text(), "Visit website") {
			return true
		}
		href := link.AttrOr("href", "")
		if strings.Contains(href, "utm_source=trustpilot") || !strings.Contains(href, "trustpilot.com") {
			result = href
			return false
		}
		return true
	})
	return result, result != ""
}

func extractAddress(pageText string) (string, bool) {
	if groups := addressZipRe.FindStringSubmatch(pageText); groups != nil {
		return groups[1], true
	}
	if groups := addressLooseRe.FindStringSubmatch(pageText); groups != nil {
		return groups[1], true
	}
	return "", false
}

// extractDescription pulls the company-authored blurb between the
// "About <name>" heading and the next known section marker.
func extractDescription(pageText, name string) (string, bool) {
	re, err := regexp.Compile(
		`(?i)About\s+` + regexp.QuoteMeta(name) +
			`[\s\S]*?Written by the company\s*([\s\S]*?)(?:Contact info|Categories|\n\n\n)`,
	)
	if err != nil {
		return "", false
	}
	groups := re.FindStringSubmatch(pageText)
	if groups == nil {
		return "", false
	}
	desc := strings.TrimSpace(groups[1])
	if desc == "" {
		return "", false
	}
	runes := []rune(desc)
	if len(runes) > descriptionLimit {
		desc = string(runes[:descriptionLimit])
	}
	return desc, true
}

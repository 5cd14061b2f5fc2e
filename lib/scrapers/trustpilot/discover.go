package trustpilot

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"trustharvest/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// review-count text comes as "4.216,726 reviews": a 3-character rating
// prefix glued onto a comma-grouped count. The prefix is assumed to
// always be exactly "d.d"; ratings like "10.0" would parse wrong here,
// matching the site's current format.
var reviewCountRegex = regexp.MustCompile(`\d\.\d([\d,]+)\s*reviews`)
var reviewCountLooseRegex = regexp.MustCompile(`\d\.\d([\d,]+)`)

// parseReviewCount strips the rating prefix and the comma separators
// out of a combined rating+count string.
func parseReviewCount(s string, re *regexp.Regexp) (int, bool) {
	groups := re.FindStringSubmatch(s)
	if len(groups) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(groups[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Discover scans the given category listing pages and returns companies
// holding at least minReviews reviews, de-duplicated case-insensitively
// by name with the first occurrence kept. A listing page that fails to
// fetch is logged and skipped; a malformed card is skipped silently.
func (c *Client) Discover(ctx context.Context, listingURLs []string, minReviews int) []Candidate {
	ctx, span := tracer.Start(ctx, "client:Discover")
	defer span.End()

	var companies []Candidate

	for i, link := range listingURLs {
		slog.InfoContext(ctx, "scanning listing", "url", link)

		res, err := c.Http.R().
			SetContext(ctx).
			Get(link)
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch listing page", "url", link, "err", err)
			span.RecordError(err)
			continue
		}
		if res.IsError() {
			slog.ErrorContext(ctx, "listing page returned error status", "url", link, "status", res.Status())
			span.SetStatus(codes.Error, "listing page returned error status")
			continue
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse listing page", "url", link, "err", err)
			span.RecordError(err)
			continue
		}

		base, _ := url.Parse(link)

		cards := doc.Find("div.styles_card__WMwue")
		slog.InfoContext(ctx, "found company cards", "count", cards.Length())

		cards.Each(func(_ int, card *goquery.Selection) {
			candidate, ok := extractCandidate(card, base)
			if !ok {
				return
			}
			if candidate.ReviewCount < minReviews {
				return
			}
			companies = append(companies, candidate)
			slog.InfoContext(ctx, "found company",
				"name", candidate.Name,
				"reviews", candidate.ReviewCount,
			)
		})

		if i < len(listingURLs)-1 {
			rest(c.Pacing.ListingMin, c.Pacing.ListingMax)
		}
	}

	unique := dedupeByName(companies)
	slog.InfoContext(ctx, "discovery complete",
		"companies", len(unique),
		"min_reviews", minReviews,
	)
	return unique
}

func extractCandidate(card *goquery.Selection, base *url.URL) (Candidate, bool) {
	main := card.Find("div.styles_businessUnitMain__wRgqU").First()
	if main.Length() == 0 {
		return Candidate{}, false
	}

	name := htmlutil.CleanText(main.Find(`p[class*="heading-s"]`).First().Text())
	if name == "" {
		return Candidate{}, false
	}
	domain := htmlutil.CleanText(main.Find(`p[class*="websiteUrlDisplayed"]`).First().Text())
	rating := htmlutil.CleanText(card.Find("div.styles_rating__lOWGj span").First().Text())

	count := 0
	ratingText := main.Find(`p[class*="ratingText"]`).First()
	if ratingText.Length() > 0 {
		if n, ok := parseReviewCount(strings.TrimSpace(ratingText.Text()), reviewCountRegex); ok {
			count = n
		}
	} else {
		// some card variants only carry the count inside a span
		card.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
			if !strings.Contains(strings.ToLower(span.Text()), "reviews") {
				return true
			}
			if n, ok := parseReviewCount(span.Text(), reviewCountLooseRegex); ok {
				count = n
			}
			return false
		})
	}

	href, ok := card.Find(`a[href*="/review/"]`).First().Attr("href")
	if !ok {
		return Candidate{}, false
	}
	profileURL := href
	if base != nil {
		if ref, err := url.Parse(href); err == nil {
			profileURL = base.ResolveReference(ref).String()
		}
	}

	location := htmlutil.CleanText(card.Find("div.styles_businessLocation__PIJjr").First().Text())
	if location == "" {
		location = "Unknown"
	}

	return Candidate{
		Name:        name,
		Domain:      domain,
		Rating:      rating,
		ReviewCount: count,
		Location:    location,
		ProfileURL:  profileURL,
	}, true
}

func dedupeByName(companies []Candidate) []Candidate {
	seen := map[string]bool{}
	var unique []Candidate
	for _, c := range companies {
		key := strings.ToLower(c.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}
	return unique
}

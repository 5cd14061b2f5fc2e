package trustpilot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"trustharvest/lib/htmlutil"
	"trustharvest/lib/topics"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// ~20 reviews per page, so 100 pages comfortably covers any target
const maxReviewPages = 100

// Reviews pages through a company's review listing starting at page 1,
// collecting up to target reviews. Paging stops at the target, at a page
// without review cards, at a page where no card yields a review, at any
// fetch failure, or at the page ceiling. Reviews come back in page order
// then card order; duplicates across pages caused by listing drift are
// kept as-is.
func (c *Client) Reviews(ctx context.Context, link, name string, target int) []Review {
	ctx, span := tracer.Start(ctx, "client:Reviews")
	defer span.End()

	slog.InfoContext(ctx, "scraping reviews", "company", name, "target", target)

	var collected []Review
	for page := 1; len(collected) < target && page <= maxReviewPages; page++ {
		res, err := c.Http.R().
			SetContext(ctx).
			Get(fmt.Sprintf("%s?page=%d", link, page))
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch review page", "company", name, "page", page, "err", err)
			span.RecordError(err)
			break
		}
		if res.IsError() {
			slog.ErrorContext(ctx, "review page returned error status", "company", name, "page", page, "status", res.Status())
			span.SetStatus(codes.Error, "review page returned error status")
			break
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse review page", "company", name, "page", page, "err", err)
			span.RecordError(err)
			break
		}

		cards := doc.Find("article[data-service-review-card-paper]")
		if cards.Length() == 0 {
			break
		}

		pageCount := 0
		cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
			if len(collected) >= target {
				return false
			}
			collected = append(collected, extractReview(card, name, page))
			pageCount++
			return true
		})

		if page%10 == 0 {
			slog.InfoContext(ctx, "review progress", "company", name, "page", page, "collected", len(collected))
		}

		// a page full of cards none of which produced a review means
		// the listing is exhausted or the site is serving filler
		if pageCount == 0 {
			break
		}

		rest(c.Pacing.PageMin, c.Pacing.PageMax)
	}

	slog.InfoContext(ctx, "reviews collected", "company", name, "count", len(collected))
	return collected
}

func extractReview(card *goquery.Selection, companyName string, page int) Review {
	reviewer := htmlutil.CleanText(card.Find("span[data-consumer-name-typography]").First().Text())
	if reviewer == "" {
		reviewer = "Anonymous"
	}

	rating := "No rating"
	if star := card.Find(`img[alt*="star"]`).First(); star.Length() > 0 {
		rating = star.AttrOr("alt", "No rating")
	}

	text := htmlutil.CleanText(card.Find("p").First().Text())

	date := "Unknown"
	if el := card.Find("time").First(); el.Length() > 0 {
		date = el.AttrOr("datetime", "Unknown")
	}

	title := htmlutil.CleanText(card.Find("h2").First().Text())
	if title == "" {
		title = "No title"
	}

	verified := card.Find("[data-service-review-verified-review]").Length() > 0

	location := htmlutil.CleanText(card.Find("span[data-consumer-country-typography]").First().Text())
	if location == "" {
		location = "Unknown"
	}

	cardText := card.Text()
	hasReply := strings.Contains(cardText, "Company replied") || strings.Contains(cardText, "Reply from")

	tags, flags := topics.Tag(title, text)

	return Review{
		CompanyName:      companyName,
		ReviewerName:     reviewer,
		ReviewerLocation: location,
		Rating:           rating,
		Date:             date,
		Title:            title,
		Text:             text,
		Length:           utf8.RuneCountInString(text),
		Verified:         verified,
		HasCompanyReply:  hasReply,
		TopicTags:        tags,
		Mentions:         flags,
		PageNumber:       page,
		ScrapedAt:        time.Now(),
	}
}

package trustpilot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"trustharvest/lib/telemetry"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

type reviewCard struct {
	Reviewer string
	Country  string
	StarAlt  string
	Title    string
	Text     string
	Date     string
	Verified bool
	Reply    string
}

func (c reviewCard) html() string {
	out := `<article data-service-review-card-paper="true">`
	if c.Reviewer != "" {
		out += fmt.Sprintf(`<span data-consumer-name-typography="true">%s</span>`, c.Reviewer)
	}
	if c.Country != "" {
		out += fmt.Sprintf(`<span data-consumer-country-typography="true">%s</span>`, c.Country)
	}
	if c.StarAlt != "" {
		out += fmt.Sprintf(`<img alt="%s" src="stars.svg">`, c.StarAlt)
	}
	if c.Verified {
		out += `<div data-service-review-verified-review="true">Verified</div>`
	}
	if c.Title != "" {
		out += fmt.Sprintf(`<h2>%s</h2>`, c.Title)
	}
	if c.Text != "" {
		out += fmt.Sprintf(`<p>%s</p>`, c.Text)
	}
	if c.Date != "" {
		out += fmt.Sprintf(`<time datetime="%s">recently</time>`, c.Date)
	}
	if c.Reply != "" {
		out += fmt.Sprintf(`<div>%s</div>`, c.Reply)
	}
	out += `</article>`
	return out
}

func reviewPage(cards ...reviewCard) string {
	body := ""
	for _, c := range cards {
		body += c.html()
	}
	return fmt.Sprintf(`<html><body>%s</body></html>`, body)
}

// serves pages[n-1] for ?page=n and an empty listing beyond
func serveReviewPages(t *testing.T, pages ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || n < 1 || n > len(pages) {
			fmt.Fprint(w, reviewPage())
			return
		}
		fmt.Fprint(w, pages[n-1])
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReviewsFieldExtraction(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:trustpilot")
	defer cleanup()

	srv := serveReviewPages(t, reviewPage(
		reviewCard{
			Reviewer: "Jane D",
			Country:  "US",
			StarAlt:  "Rated 5 out of 5 stars",
			Title:    "Quick shipping",
			Text:     "Arrived two days early and works great.",
			Date:     "2024-11-02T10:00:00.000Z",
			Verified: true,
			Reply:    "Reply from Acme Appliances",
		},
		reviewCard{},
	))
	client := newTestClient(t)

	reviews := client.Reviews(context.Background(), srv.URL+"/review/acme.com", "Acme Appliances", 500)
	require.Len(t, reviews, 2)

	first := reviews[0]
	require.Equal(t, "Acme Appliances", first.CompanyName)
	require.Equal(t, "Jane D", first.ReviewerName)
	require.Equal(t, "US", first.ReviewerLocation)
	require.Equal(t, "Rated 5 out of 5 stars", first.Rating)
	require.Equal(t, "2024-11-02T10:00:00.000Z", first.Date)
	require.Equal(t, "Quick shipping", first.Title)
	require.Equal(t, "Arrived two days early and works great.", first.Text)
	require.Equal(t, utf8.RuneCountInString(first.Text), first.Length)
	require.True(t, first.Verified)
	require.True(t, first.HasCompanyReply)
	require.Contains(t, first.TopicTags, "delivery")
	require.True(t, first.Mentions["delivery"])
	require.Equal(t, 1, first.PageNumber)
	require.False(t, first.ScrapedAt.IsZero())

	// the bare card degrades to defaults
	second := reviews[1]
	require.Equal(t, "Anonymous", second.ReviewerName)
	require.Equal(t, "Unknown", second.ReviewerLocation)
	require.Equal(t, "No rating", second.Rating)
	require.Equal(t, "Unknown", second.Date)
	require.Equal(t, "No title", second.Title)
	require.Empty(t, second.Text)
	require.Equal(t, 0, second.Length)
	require.False(t, second.Verified)
	require.False(t, second.HasCompanyReply)
	require.Equal(t, "general", second.TopicTags)
}

func TestReviewsCompanyRepliedMarker(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:trustpilot")
	defer cleanup()

	srv := serveReviewPages(t, reviewPage(
		reviewCard{Reviewer: "A", Text: "ok thanks", Reply: "Company replied"},
		reviewCard{Reviewer: "B", Text: "ok thanks"},
	))
	client := newTestClient(t)

	reviews := client.Reviews(context.Background(), srv.URL+"/review/x.com", "X", 500)
	require.Len(t, reviews, 2)
	require.True(t, reviews[0].HasCompanyReply)
	require.False(t, reviews[1].HasCompanyReply)
}

func TestReviewsStopsOnEmptyPage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:trustpilot")
	defer cleanup()

	page1 := reviewPage(
		reviewCard{Reviewer: "A", Text: "fine"},
		reviewCard{Reviewer: "B", Text: "fine"},
	)
	srv := serveReviewPages(t, page1)
	client := newTestClient(t)

	// target far beyond what the listing holds
	reviews := client.Reviews(context.Background(), srv.URL+"/review/x.com", "X", 500)
	require.Len(t, reviews, 2)
}

func TestReviewsPagesInOrder(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:trustpilot")
	defer cleanup()

	srv := serveReviewPages(t,
		reviewPage(reviewCard{Reviewer: "P1A", Text: "x"}, reviewCard{Reviewer: "P1B", Text: "x"}),
		reviewPage(reviewCard{Reviewer: "P2A", Text: "x"}),
	)
	client := newTestClient(t)

	reviews := client.Reviews(context.Background(), srv.URL+"/review/x.com", "X", 500)
	require.Len(t, reviews, 3)
	require.Equal(t, []string{"P1A", "P1B", "P2A"}, []string{
		reviews[0].ReviewerName, reviews[1].ReviewerName, reviews[2].ReviewerName,
	})
	require.Equal(t, 1, reviews[0].PageNumber)
	require.Equal(t, 1, reviews[1].PageNumber)
	require.Equal(t, 2, reviews[2].PageNumber)
}

func TestReviewsHonorsTargetMidPage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:trustpilot")
	defer cleanup()

	srv := serveReviewPages(t, reviewPage(
		reviewCard{Reviewer: "A", Text: "x"},
		reviewCard{Reviewer: "B", Text: "x"},
		reviewCard{Reviewer: "C", Text: "x"},
	))
	client := newTestClient(t)

	reviews := client.Reviews(context.Background(), srv.URL+"/review/x.com", "X", 2)
	require.Len(t, reviews, 2)
	require.Equal(t, "A", reviews[0].ReviewerName)
	require.Equal(t, "B", reviews[1].ReviewerName)
}

func TestReviewsStopsOnFetchFailure(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:trustpilot")
	defer cleanup()

	page1 := reviewPage(reviewCard{Reviewer: "A", Text: "x"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, page1)
			return
		}
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	client := newTestClient(t)

	reviews := client.Reviews(context.Background(), srv.URL+"/review/x.com", "X", 500)
	require.Len(t, reviews, 1)
}

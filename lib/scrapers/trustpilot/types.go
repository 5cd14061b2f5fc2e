package trustpilot

import "time"

// Candidate is one company pulled off a category listing page.
// Uniqueness across a discovery run is by case-insensitive Name.
type Candidate struct {
	Name        string
	Domain      string
	Rating      string
	ReviewCount int
	Location    string
	ProfileURL  string
}

// Profile is the full set of fields scraped off a company's profile
// page. Pointer fields are absent when extraction found nothing; the
// string fields fall back to "Unknown" or empty as documented on each.
type Profile struct {
	Name       string
	ProfileURL string
	ScrapedAt  time.Time

	// nil when no extraction method matched
	OverallRating *float64
	// Excellent/Great/Good/Average/Poor/Bad, else "Unknown"
	TrustCategory  string
	TotalReviews   int
	ClaimedProfile bool
	// defaults to 1
	NumLocations int
	// first store/shop category link text, else "Unknown"
	BusinessType string
	// empty when absent
	WebsiteURL string
	// percentage string like "85%", else "Unknown"
	NegativeResponseRate string
	ResponseTime         string
	VerifiedCompany      bool
	Phone                string
	Email                string
	Address              string
	// nil when absent
	FoundedYear           *int
	HasActiveSubscription bool
	// truncated to 500 characters, empty when absent
	Description string
}

// Review is one customer review card from a paginated review listing.
type Review struct {
	CompanyName      string
	ReviewerName     string
	ReviewerLocation string
	// raw star-image alt text, or "No rating"
	Rating string
	// ISO date string, or "Unknown"
	Date  string
	Title string
	Text  string
	// character count of Text
	Length          int
	Verified        bool
	HasCompanyReply bool
	// comma-joined topic names, or "general"
	TopicTags string
	// one entry per taxonomy topic
	Mentions   map[string]bool
	PageNumber int
	ScrapedAt  time.Time
}

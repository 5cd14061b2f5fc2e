package trustpilot

import (
	"net/http/cookiejar"
	"time"
	"trustharvest/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/trustpilot")

// Pacing holds the sleep windows inserted between requests. Zero
// durations disable the corresponding sleep, which is what tests use.
type Pacing struct {
	// between category listing fetches
	ListingMin, ListingMax time.Duration
	// between review listing pages
	PageMin, PageMax time.Duration
}

func DefaultPacing() Pacing {
	return Pacing{
		ListingMin: 2 * time.Second,
		ListingMax: 4 * time.Second,
		PageMin:    1 * time.Second,
		PageMax:    2 * time.Second,
	}
}

type Client struct {
	Http   *resty.Client
	Pacing Pacing
}

type ClientOptions struct {
	Pacing  Pacing
	Timeout time.Duration
	// disables the cloudflare bypass transport, used by tests
	// against plain httptest servers
	PlainTransport bool
}

func NewClient(opts ClientOptions) (*Client, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if !opts.PlainTransport {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	client.SetHeader("accept-language", "en-US,en;q=0.5")

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 15
	}
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "scrapers/trustpilot/http")

	return &Client{
		Http:   client,
		Pacing: opts.Pacing,
	}, nil
}

// rest sleeps for a random duration inside [min, max], purely to keep
// request pacing polite. No-op when max is zero.
func rest(min, max time.Duration) {
	if max <= 0 {
		return
	}
	if max > min {
		ms, err := random.IntRange(int(min/time.Millisecond), int(max/time.Millisecond))
		if err == nil {
			time.Sleep(time.Duration(ms) * time.Millisecond)
			return
		}
	}
	time.Sleep(min)
}

package mailmenu

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultFeedBaseURL  = "https://mail.google.com"
	defaultFetchTimeout = 30 * time.Second

	// inboxFeedLabel selects the primary inbox section. Other sections use
	// ^sq_ig_i_social, ^sq_ig_i_promo, ^sq_ig_i_notification, ^sq_ig_i_group.
	inboxFeedLabel = "%5Esq_ig_i_personal"

	// Gmail serves the feed to browser user agents; mimic one.
	feedUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/13.1.1 Safari/605.1.15"
)

// Fetcher performs one authenticated feed request per call. It never
// retries (retry policy belongs to the Poller) and never caches.
type Fetcher struct {
	client  *http.Client
	baseURL string
}

// NewFetcher returns a Fetcher with the given request timeout. baseURL is
// overridable for tests; empty means the real Gmail endpoint.
func NewFetcher(timeout time.Duration, baseURL string) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if baseURL == "" {
		baseURL = defaultFeedBaseURL
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Fetch GETs the account's inbox feed with its session cookies attached and
// returns the raw response body.
func (f *Fetcher) Fetch(ctx context.Context, acct Account) (string, error) {
	url := fmt.Sprintf("%s/mail/u/%d/feed/atom/%s", f.baseURL, acct.Index, inboxFeedLabel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Cookie", acct.CookieHeader)
	req.Header.Set("User-Agent", feedUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFetch, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFetch, url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: status %d", ErrFetch, url, resp.StatusCode)
	}
	return string(body), nil
}

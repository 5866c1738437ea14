package letterboxd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultFeedBaseURL = "https://letterboxd.com"
	DefaultRelayURL    = "https://api.allorigins.win/raw"

	defaultTimeout = 30 * time.Second
	acceptHeader   = "application/rss+xml, application/xml, text/xml"
	userAgent      = "Filmlog/1.0 (https://github.com/mrlokans/filmlog)"

	// maxFeedSize bounds how much of a relay response is read.
	maxFeedSize = 10 << 20
)

// Client retrieves member feeds through a relay that proxies letterboxd.com.
type Client struct {
	httpClient  *http.Client
	feedBaseURL string
	relayURL    string
}

// NewClient creates a feed client. An empty relayURL fetches the feed directly.
func NewClient(feedBaseURL, relayURL string) *Client {
	if feedBaseURL == "" {
		feedBaseURL = DefaultFeedBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		feedBaseURL: strings.TrimRight(feedBaseURL, "/"),
		relayURL:    relayURL,
	}
}

// FeedURL returns the canonical public feed URL for a member.
func (c *Client) FeedURL(handle string) string {
	return fmt.Sprintf("%s/%s/rss/", c.feedBaseURL, url.PathEscape(handle))
}

func (c *Client) requestURL(handle string) string {
	feedURL := c.FeedURL(handle)
	if c.relayURL == "" {
		return feedURL
	}
	return c.relayURL + "?url=" + url.QueryEscape(feedURL)
}

// Fetch returns the raw feed markup for a member handle.
// Any transport failure or non-2xx status is returned as *FeedUnavailableError.
func (c *Client) Fetch(ctx context.Context, handle string) ([]byte, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, ErrMissingHandle
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(handle), nil)
	if err != nil {
		return nil, &FeedUnavailableError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FeedUnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FeedUnavailableError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, &FeedUnavailableError{StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

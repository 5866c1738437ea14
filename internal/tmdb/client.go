package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"

	defaultTimeout  = 15 * time.Second
	defaultCacheTTL = 30 * time.Minute
	userAgent       = "Filmlog/1.0 (https://github.com/mrlokans/filmlog)"
)

// APIKeyFunc returns the API key to use for the next request.
// It is called per request so a key changed at runtime takes effect immediately.
type APIKeyFunc func() string

// StaticKey returns an APIKeyFunc that always yields key.
func StaticKey(key string) APIKeyFunc {
	return func() string { return key }
}

// Options configures a Client.
type Options struct {
	BaseURL string
	APIKey  APIKeyFunc
	// RequestsPerSecond caps outgoing requests; zero or negative disables limiting.
	RequestsPerSecond float64
	// CacheTTL controls how long movie details are cached; zero uses the default.
	CacheTTL time.Duration
}

// Client fetches movie metadata from the TMDB v3 API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     APIKeyFunc
	limiter    *rate.Limiter
	details    *cache.Cache
}

// NewClient creates a TMDB client with rate limiting and a movie-detail cache.
func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	apiKey := opts.APIKey
	if apiKey == nil {
		apiKey = StaticKey("")
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		limiter: rate.NewLimiter(limit, 1),
		details: cache.New(ttl, 2*ttl),
	}
}

// GetMovie fetches full details for a movie including credits.
// A movie TMDB does not know returns ErrNotFound.
func (c *Client) GetMovie(ctx context.Context, id int) (*MovieDetails, error) {
	key := strconv.Itoa(id)
	if cached, ok := c.details.Get(key); ok {
		return cached.(*MovieDetails), nil
	}

	params := url.Values{}
	params.Set("append_to_response", "credits")

	var details MovieDetails
	if err := c.get(ctx, "/movie/"+key, params, &details); err != nil {
		return nil, err
	}

	c.details.SetDefault(key, &details)
	return &details, nil
}

// ListMovies fetches one page of a list endpoint such as "movie/popular" or "trending/movie/week".
func (c *Client) ListMovies(ctx context.Context, endpoint string, page int, params url.Values) (*MovieList, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}

	var list MovieList
	if err := c.get(ctx, "/"+strings.TrimLeft(endpoint, "/"), query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	apiKey := c.apiKey()
	if apiKey == "" {
		return ErrMissingAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("api_key", apiKey)
	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidAPIKey
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return &ServerError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

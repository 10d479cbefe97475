// Package webpage fetches the public profile page and hands it to the
// extractor. Cheapest and least intrusive of the HTTP strategies, but the
// page increasingly requires client-side rendering, so it often yields
// nothing readable.
package webpage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fraudlens/fraudlens/extract"
	"github.com/fraudlens/fraudlens/httpcache"
	"github.com/fraudlens/fraudlens/profile"
)

const pageFormat = "https://www.instagram.com/%s/"

// Client handles plain page requests.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cache  httpcache.Cacher
	logger *slog.Logger
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates a plain-document client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
	}, nil
}

// Name identifies the strategy in resolution provenance and diagnostics.
func (*Client) Name() string { return "plain document" }

// Fetch retrieves the public page and extracts account attributes from it.
func (c *Client) Fetch(ctx context.Context, username string) (*profile.Account, error) {
	pageURL := fmt.Sprintf(pageFormat, username)

	c.logger.InfoContext(ctx, "fetching public page", "username", username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", profile.ErrTransport, err)
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return nil, classify(err)
	}

	return FromDocument(string(body), username)
}

// FromDocument builds an account from a raw profile document. Shared with the
// headless strategy, which obtains the document differently but reads it the
// same way.
func FromDocument(htmlContent, username string) (*profile.Account, error) {
	data, ok := extract.Page(htmlContent)
	if !ok {
		return nil, fmt.Errorf("%w: page loaded but no profile markers found", profile.ErrUnparsable)
	}

	account := profile.Account{
		Username:       username,
		Biography:      data.Biography,
		FollowersCount: data.Followers,
		FollowingCount: data.Following,
		MediaCount:     data.Media,
		HasProfilePic:  data.HasPic,
	}.Normalized()

	return &account, nil
}

func classify(err error) error {
	var httpErr *httpcache.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: HTTP 404", profile.ErrNotFound)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: HTTP 429", profile.ErrRateLimited)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: HTTP %d", profile.ErrDenied, httpErr.StatusCode)
		default:
			return fmt.Errorf("%w: HTTP %d", profile.ErrTransport, httpErr.StatusCode)
		}
	}
	return fmt.Errorf("%w: %v", profile.ErrTransport, err)
}

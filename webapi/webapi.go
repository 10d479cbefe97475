// Package webapi fetches account data from the public machine-readable
// profile endpoint, no login required.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fraudlens/fraudlens/httpcache"
	"github.com/fraudlens/fraudlens/profile"
)

const (
	endpoint = "https://i.instagram.com/api/v1/users/web_profile_info/?username="

	// Fixed application identifier the web client sends; requests without
	// it are rejected.
	appID = "936619743392459"
)

// Client handles public web-API requests.
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

// New creates a web-API client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 6 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
	}, nil
}

// Name identifies the strategy in resolution provenance and diagnostics.
func (*Client) Name() string { return "web API" }

// Fetch retrieves an account via the structured endpoint.
func (c *Client) Fetch(ctx context.Context, username string) (*profile.Account, error) {
	reqURL := endpoint + username

	c.logger.InfoContext(ctx, "fetching via web api", "username", username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", profile.ErrTransport, err)
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-IG-App-ID", appID)

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return nil, classify(err)
	}

	return parseResponse(body, username)
}

// classify converts transport faults into the failure taxonomy.
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

func parseResponse(data []byte, username string) (*profile.Account, error) {
	var resp struct {
		Data struct {
			User *struct {
				Username       string `json:"username"`
				Biography      string `json:"biography"`
				EdgeFollowedBy struct {
					Count int `json:"count"`
				} `json:"edge_followed_by"`
				EdgeFollow struct {
					Count int `json:"count"`
				} `json:"edge_follow"`
				EdgeOwnerToTimelineMedia struct {
					Count int `json:"count"`
				} `json:"edge_owner_to_timeline_media"`
				ProfilePicURL string `json:"profile_pic_url"`
			} `json:"user"`
		} `json:"data"`
		Status string `json:"status"`
	}

	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: unexpected payload shape: %v", profile.ErrUnparsable, err)
	}

	if resp.Status != "" && resp.Status != "ok" {
		return nil, fmt.Errorf("%w: API status %q", profile.ErrDenied, resp.Status)
	}
	if resp.Data.User == nil {
		return nil, fmt.Errorf("%w: payload carried no user object", profile.ErrUnparsable)
	}

	u := resp.Data.User
	if u.Username == "" {
		u.Username = username
	}

	account := profile.Account{
		Username:       u.Username,
		Biography:      u.Biography,
		FollowersCount: u.EdgeFollowedBy.Count,
		FollowingCount: u.EdgeFollow.Count,
		MediaCount:     u.EdgeOwnerToTimelineMedia.Count,
		HasProfilePic:  u.ProfilePicURL != "",
	}.Normalized()

	return &account, nil
}

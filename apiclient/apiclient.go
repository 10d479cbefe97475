// Package apiclient fetches account data through the authenticated private
// API. It is the most authoritative strategy and runs first, but it needs
// either a stored session token or login credentials; with neither it
// reports itself unavailable rather than attempting anything.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fraudlens/fraudlens/auth"
	"github.com/fraudlens/fraudlens/profile"
)

const (
	userInfoEndpoint = "https://i.instagram.com/api/v1/users/web_profile_info/?username="
	loginPageURL     = "https://www.instagram.com/accounts/login/"
	loginAjaxURL     = "https://www.instagram.com/accounts/login/ajax/"
	appID            = "936619743392459"
	browserUA        = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Client handles authenticated requests.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	creds      auth.Credentials
	hasSession bool
	csrfToken  string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cookies        map[string]string
	creds          auth.Credentials
	logger         *slog.Logger
	browserCookies bool
}

// WithCookies sets explicit session cookie values.
func WithCookies(cookies map[string]string) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithCredentials sets explicit login credentials.
func WithCredentials(creds auth.Credentials) Option {
	return func(c *config) { c.creds = creds }
}

// WithBrowserCookies enables reading session cookies from browser stores.
func WithBrowserCookies() Option {
	return func(c *config) { c.browserCookies = true }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates an authenticated client.
// Session sources: WithCookies > environment variables > browser stores.
// Missing auth material is not an error here; Fetch reports the strategy
// unavailable so the orchestrator can move on.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	var sources []auth.Source
	if len(cfg.cookies) > 0 {
		sources = append(sources, auth.NewStaticSource(cfg.cookies))
	}
	sources = append(sources, auth.EnvSource{})
	if cfg.browserCookies {
		sources = append(sources, auth.NewBrowserSource(cfg.logger))
	}

	cookies, err := auth.ChainSources(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("cookie retrieval failed: %w", err)
	}

	jar, err := auth.NewCookieJar("instagram.com", cookies)
	if err != nil {
		return nil, fmt.Errorf("cookie jar creation failed: %w", err)
	}

	creds := cfg.creds
	if creds.Empty() {
		creds = auth.CredentialsFromEnv()
	}

	c := &Client{
		httpClient: &http.Client{Jar: jar, Timeout: 10 * time.Second},
		logger:     cfg.logger,
		creds:      creds,
		hasSession: cookies["sessionid"] != "",
		csrfToken:  cookies["csrftoken"],
	}

	if c.hasSession {
		cfg.logger.InfoContext(ctx, "authenticated client using stored session", "cookie_count", len(cookies))
	}
	return c, nil
}

// Name identifies the strategy in resolution provenance and diagnostics.
func (*Client) Name() string { return "authenticated client" }

// Fetch retrieves an account through the private API, logging in first when
// only credentials are available.
func (c *Client) Fetch(ctx context.Context, username string) (*profile.Account, error) {
	if !c.hasSession && c.creds.Empty() {
		return nil, fmt.Errorf("%w: no session token or credentials; set %v or %s/%s",
			profile.ErrStrategyUnavailable, auth.EnvVars(), auth.EnvUsername, auth.EnvPassword)
	}

	if !c.hasSession {
		if err := c.login(ctx); err != nil {
			return nil, err
		}
	}

	c.logger.InfoContext(ctx, "fetching via authenticated api", "username", username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoEndpoint+username, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", profile.ErrTransport, err)
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-IG-App-ID", appID)
	if c.csrfToken != "" {
		req.Header.Set("X-CSRFToken", c.csrfToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", profile.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // error ignored intentionally

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", profile.ErrTransport, err)
	}

	return parseUserInfo(body, username)
}

// login performs the session login: a priming GET for the CSRF cookie, then
// the login POST with the browser-format password envelope.
func (c *Client) login(ctx context.Context) error {
	c.logger.InfoContext(ctx, "logging in with stored credentials", "login_user", c.creds.Username)

	primeReq, err := http.NewRequestWithContext(ctx, http.MethodGet, loginPageURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %v", profile.ErrTransport, err)
	}
	primeReq.Header.Set("User-Agent", browserUA)

	primeResp, err := c.httpClient.Do(primeReq)
	if err != nil {
		return fmt.Errorf("%w: login page: %v", profile.ErrTransport, err)
	}
	_, _ = io.Copy(io.Discard, primeResp.Body) //nolint:errcheck // drain for connection reuse
	_ = primeResp.Body.Close()                 //nolint:errcheck // error ignored intentionally

	csrf := c.cookieValue(loginPageURL, "csrftoken")
	if csrf == "" {
		return fmt.Errorf("%w: no CSRF token issued for login", profile.ErrDenied)
	}

	form := url.Values{
		"username":     {c.creds.Username},
		"enc_password": {fmt.Sprintf("#PWD_INSTAGRAM_BROWSER:0:%d:%s", time.Now().Unix(), c.creds.Password)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginAjaxURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", profile.ErrTransport, err)
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRFToken", csrf)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: login: %v", profile.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // error ignored intentionally

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", profile.ErrTransport, err)
	}

	var login struct {
		Authenticated bool   `json:"authenticated"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(body, &login); err != nil {
		return fmt.Errorf("%w: login response: %v", profile.ErrUnparsable, err)
	}
	if !login.Authenticated {
		return fmt.Errorf("%w: login rejected (status %q)", profile.ErrDenied, login.Status)
	}

	c.hasSession = true
	c.csrfToken = c.cookieValue(loginPageURL, "csrftoken")
	c.logger.InfoContext(ctx, "session login succeeded")
	return nil
}

func (c *Client) cookieValue(rawURL, name string) string {
	u, err := url.Parse(rawURL)
	if err != nil || c.httpClient.Jar == nil {
		return ""
	}
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func classifyStatus(code int) error {
	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: HTTP 404", profile.ErrNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP 429", profile.ErrRateLimited)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", profile.ErrDenied, code)
	default:
		return fmt.Errorf("%w: HTTP %d", profile.ErrTransport, code)
	}
}

func parseUserInfo(data []byte, username string) (*profile.Account, error) {
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

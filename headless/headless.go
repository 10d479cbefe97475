// Package headless drives a real browser to render the profile page, then
// reads the rendered document the same way the plain-document strategy does.
// Slow and heavyweight, so it runs late in the order, and it needs a Chrome
// or Chromium binary on PATH.
package headless

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/fraudlens/fraudlens/profile"
	"github.com/fraudlens/fraudlens/webpage"
)

const pageFormat = "https://www.instagram.com/%s/"

// browserBinaries are probed in order when locating a browser executable.
var browserBinaries = []string{"google-chrome", "chromium", "chromium-browser", "chrome"}

// Client renders profile pages in a headless browser.
type Client struct {
	logger   *slog.Logger
	execPath string
	settle   time.Duration
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	settle  time.Duration
	timeout time.Duration
}

// WithSettle sets how long to wait after navigation for client-side
// rendering to finish.
func WithSettle(d time.Duration) Option {
	return func(c *config) { c.settle = d }
}

// WithTimeout sets the overall budget for one render.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates a headless browser client. A missing browser binary is not an
// error here; Fetch reports the strategy unavailable instead.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{
		logger:  slog.Default(),
		settle:  3 * time.Second,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		logger:   cfg.logger,
		execPath: findBrowser(),
		settle:   cfg.settle,
		timeout:  cfg.timeout,
	}, nil
}

// Name identifies the strategy in resolution provenance and diagnostics.
func (*Client) Name() string { return "headless browser" }

// Fetch renders the profile page and extracts account attributes from the
// rendered document.
func (c *Client) Fetch(ctx context.Context, username string) (*profile.Account, error) {
	if c.execPath == "" {
		return nil, fmt.Errorf("%w: no browser binary found (tried %v)",
			profile.ErrStrategyUnavailable, browserBinaries)
	}

	pageURL := fmt.Sprintf(pageFormat, username)
	c.logger.InfoContext(ctx, "rendering page in headless browser",
		"username", username, "browser", c.execPath)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(c.execPath),
		chromedp.Headless,
		chromedp.DisableGPU,
		chromedp.UserAgent(httpUserAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(c.settle),
		chromedp.OuterHTML("html", &htmlContent),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: browser render failed: %v", profile.ErrTransport, err)
	}

	c.logger.Debug("rendered document captured", "username", username, "bytes", len(htmlContent))

	return webpage.FromDocument(htmlContent, username)
}

// httpUserAgent matches the identity the HTTP strategies present, so the
// rendered page is served the same markup.
const httpUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func findBrowser() string {
	for _, name := range browserBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

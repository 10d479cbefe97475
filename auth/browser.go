package auth

import (
	"context"
	"log/slog"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all" // Import all browser cookie stores
)

const cookieDomain = "instagram.com"

// essentialCookies are the session cookies the authenticated strategy needs.
var essentialCookies = []string{"sessionid", "csrftoken"}

// BrowserSource reads session cookies from browser cookie stores.
type BrowserSource struct {
	logger *slog.Logger
}

// NewBrowserSource creates a new browser cookie source.
func NewBrowserSource(logger *slog.Logger) *BrowserSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrowserSource{logger: logger}
}

// Cookies returns session cookies found in any installed browser's store.
func (s *BrowserSource) Cookies(ctx context.Context) (map[string]string, error) {
	kookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(cookieDomain))
	if err != nil {
		s.logger.Debug("failed to read browser cookies", "error", err)
		return nil, nil //nolint:nilnil // failed browser read is not a fatal error
	}

	if len(kookies) == 0 {
		return nil, nil //nolint:nilnil // no browser cookies is not an error
	}

	essential := make(map[string]bool, len(essentialCookies))
	for _, name := range essentialCookies {
		essential[name] = true
	}

	cookies := make(map[string]string)
	for _, c := range kookies {
		if essential[c.Name] {
			cookies[c.Name] = c.Value
			s.logger.Debug("found essential cookie", "name", c.Name, "len", len(c.Value))
		}
	}

	if len(cookies) == 0 {
		return nil, nil //nolint:nilnil // nothing essential found
	}
	return cookies, nil
}

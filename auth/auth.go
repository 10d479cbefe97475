// Package auth provides session-cookie and credential management for the
// authenticated fetch strategy.
package auth

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
)

// Credentials holds a login identifier and secret. Both are optional;
// strategies that need them report themselves unavailable when absent.
type Credentials struct {
	Username string
	Password string
}

// Empty reports whether no usable credential pair is present.
func (c Credentials) Empty() bool {
	return c.Username == "" || c.Password == ""
}

// Environment variables consumed by the authenticated strategy.
const (
	EnvUsername  = "INSTAGRAM_USERNAME"
	EnvPassword  = "INSTAGRAM_PASSWORD" //nolint:gosec // env var name, not a credential
	EnvSessionID = "INSTAGRAM_SESSIONID"
	EnvCSRFToken = "INSTAGRAM_CSRFTOKEN"
)

// CredentialsFromEnv reads login credentials from the environment.
func CredentialsFromEnv() Credentials {
	return Credentials{
		Username: os.Getenv(EnvUsername),
		Password: os.Getenv(EnvPassword),
	}
}

// NewCookieJar creates an http.CookieJar populated with the given cookies for a domain.
func NewCookieJar(domain string, cookies map[string]string) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse("https://" + domain)
	if err != nil {
		return nil, err
	}

	var httpCookies []*http.Cookie
	for name, value := range cookies {
		if value != "" {
			httpCookies = append(httpCookies, &http.Cookie{
				Name:   name,
				Value:  value,
				Domain: "." + domain,
				Path:   "/",
			})
		}
	}

	jar.SetCookies(u, httpCookies)
	return jar, nil
}

// Source represents a source of session cookies.
type Source interface {
	// Cookies returns session cookies, or nil if unavailable.
	Cookies(ctx context.Context) (map[string]string, error)
}

// ChainSources returns cookies from the first source that provides them.
func ChainSources(ctx context.Context, sources ...Source) (map[string]string, error) {
	for _, src := range sources {
		cookies, err := src.Cookies(ctx)
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no source had cookies, but this is not an error
}

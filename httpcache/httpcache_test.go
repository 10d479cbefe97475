package httpcache

import (
	"errors"
	"net/http"
	"testing"
)

func TestURLToKey(t *testing.T) {
	key1 := URLToKey("https://example.com/a")
	key2 := URLToKey("https://example.com/b")

	if key1 == key2 {
		t.Error("different URLs should produce different keys")
	}
	if len(key1) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(key1))
	}
	if key1 != URLToKey("https://example.com/a") {
		t.Error("keys should be deterministic")
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"500", &HTTPError{StatusCode: http.StatusInternalServerError}, true},
		{"502", &HTTPError{StatusCode: http.StatusBadGateway}, true},
		{"503", &HTTPError{StatusCode: http.StatusServiceUnavailable}, true},
		{"429", &HTTPError{StatusCode: http.StatusTooManyRequests}, false},
		{"404", &HTTPError{StatusCode: http.StatusNotFound}, false},
		{"403", &HTTPError{StatusCode: http.StatusForbidden}, false},
		{"network", errors.New("connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	err := &HTTPError{StatusCode: 429, URL: "https://example.com/u"}
	want := "HTTP 429 fetching https://example.com/u"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNewNull(t *testing.T) {
	c := NewNull()
	if c.TTL() != 0 {
		t.Errorf("null cache TTL = %v, want 0", c.TTL())
	}
}

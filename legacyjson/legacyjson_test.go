package legacyjson

import (
	"errors"
	"net/http"
	"testing"

	"github.com/fraudlens/fraudlens/httpcache"
	"github.com/fraudlens/fraudlens/profile"
)

func TestParseResponse(t *testing.T) {
	data := []byte(`{"graphql": {"user": {
		"username": "bob",
		"biography": "sunset chaser",
		"edge_followed_by": {"count": 900},
		"edge_follow": {"count": 450},
		"edge_owner_to_timeline_media": {"count": 12},
		"profile_pic_url": "https://cdn.example/bob.jpg"
	}}}`)

	got, err := parseResponse(data, "bob")
	if err != nil {
		t.Fatalf("parseResponse failed: %v", err)
	}
	if got.Username != "bob" || got.FollowersCount != 900 || got.FollowingCount != 450 {
		t.Errorf("parseResponse = %+v", got)
	}
	if !got.HasProfilePic {
		t.Error("HasProfilePic = false, want true")
	}
}

func TestParseResponseEmptyObject(t *testing.T) {
	_, err := parseResponse([]byte(`{}`), "bob")
	if !errors.Is(err, profile.ErrUnparsable) {
		t.Errorf("err = %v, want ErrUnparsable", err)
	}
}

func TestParseResponseHTMLBody(t *testing.T) {
	_, err := parseResponse([]byte(`<!DOCTYPE html><html>login wall</html>`), "bob")
	if !errors.Is(err, profile.ErrUnparsable) {
		t.Errorf("err = %v, want ErrUnparsable", err)
	}
}

func TestClassifyRateLimit(t *testing.T) {
	err := classify(&httpcache.HTTPError{StatusCode: http.StatusTooManyRequests})
	if !errors.Is(err, profile.ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestClassifyNotFound(t *testing.T) {
	err := classify(&httpcache.HTTPError{StatusCode: http.StatusNotFound})
	if !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

package webapi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fraudlens/fraudlens/httpcache"
	"github.com/fraudlens/fraudlens/profile"
)

func TestParseResponse(t *testing.T) {
	data := []byte(`{
		"data": {"user": {
			"username": "alice",
			"biography": "hiking & film",
			"edge_followed_by": {"count": 1234},
			"edge_follow": {"count": 56},
			"edge_owner_to_timeline_media": {"count": 78},
			"profile_pic_url": "https://cdn.example/alice.jpg"
		}},
		"status": "ok"
	}`)

	got, err := parseResponse(data, "alice")
	if err != nil {
		t.Fatalf("parseResponse failed: %v", err)
	}

	want := &profile.Account{
		Username:       "alice",
		Biography:      "hiking & film",
		FollowersCount: 1234,
		FollowingCount: 56,
		MediaCount:     78,
		HasProfilePic:  true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseResponse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseResponseAPIFailure(t *testing.T) {
	_, err := parseResponse([]byte(`{"status":"fail","message":"checkpoint_required"}`), "alice")
	if !errors.Is(err, profile.ErrDenied) {
		t.Errorf("err = %v, want ErrDenied", err)
	}
}

func TestParseResponseMissingUser(t *testing.T) {
	_, err := parseResponse([]byte(`{"data":{},"status":"ok"}`), "alice")
	if !errors.Is(err, profile.ErrUnparsable) {
		t.Errorf("err = %v, want ErrUnparsable", err)
	}
}

func TestParseResponseGarbage(t *testing.T) {
	_, err := parseResponse([]byte(`<html>not json</html>`), "alice")
	if !errors.Is(err, profile.ErrUnparsable) {
		t.Errorf("err = %v, want ErrUnparsable", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"404", &httpcache.HTTPError{StatusCode: http.StatusNotFound}, profile.ErrNotFound},
		{"429", &httpcache.HTTPError{StatusCode: http.StatusTooManyRequests}, profile.ErrRateLimited},
		{"403", &httpcache.HTTPError{StatusCode: http.StatusForbidden}, profile.ErrDenied},
		{"401", &httpcache.HTTPError{StatusCode: http.StatusUnauthorized}, profile.ErrDenied},
		{"500", &httpcache.HTTPError{StatusCode: http.StatusInternalServerError}, profile.ErrTransport},
		{"network", errors.New("dial tcp: timeout"), profile.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	c := &Client{}
	if c.Name() != "web API" {
		t.Errorf("Name() = %q", c.Name())
	}
}

package profile

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrNotFound", ErrNotFound, "account not found"},
		{"ErrDenied", ErrDenied, "request denied"},
		{"ErrRateLimited", ErrRateLimited, "rate limited"},
		{"ErrTransport", ErrTransport, "transport error"},
		{"ErrUnparsable", ErrUnparsable, "no usable profile data"},
		{"ErrStrategyUnavailable", ErrStrategyUnavailable, "strategy unavailable"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.want {
				t.Errorf("got %q, want %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: HTTP 429 from user-info endpoint", ErrRateLimited)

	if !errors.Is(wrapped, ErrRateLimited) {
		t.Error("wrapped error should match ErrRateLimited")
	}
}

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"alice", "alice"},
		{"@alice", "alice"},
		{"@  alice  ", "alice"},
		{"  @alice", "alice"},
		{"   ", ""},
		{"@", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := NormalizeUsername(tt.raw)
			if got != tt.want {
				t.Errorf("NormalizeUsername(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestAccountNormalized(t *testing.T) {
	a := Account{
		Username:       "@bob",
		Biography:      "  ",
		FollowersCount: -5,
		FollowingCount: 10,
		MediaCount:     -1,
	}

	want := Account{
		Username:       "bob",
		Biography:      NoBioPlaceholder,
		FollowersCount: 0,
		FollowingCount: 10,
		MediaCount:     0,
	}

	if diff := cmp.Diff(want, a.Normalized()); diff != "" {
		t.Errorf("Normalized() mismatch (-want +got):\n%s", diff)
	}
}

func TestAccountNormalizedKeepsBio(t *testing.T) {
	a := Account{Username: "carol", Biography: "travel and coffee"}
	if got := a.Normalized().Biography; got != "travel and coffee" {
		t.Errorf("Biography = %q, want unchanged", got)
	}
}

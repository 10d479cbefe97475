// Package profile defines the common types for account assessment.
package profile

import (
	"errors"
	"strings"
)

// Errors classifying why a fetch strategy failed. Every strategy converts its
// own faults into one of these before returning; no raw transport error
// crosses a strategy boundary.
var (
	ErrNotFound            = errors.New("account not found")
	ErrDenied              = errors.New("request denied")
	ErrRateLimited         = errors.New("rate limited")
	ErrTransport           = errors.New("transport error")
	ErrUnparsable          = errors.New("no usable profile data")
	ErrStrategyUnavailable = errors.New("strategy unavailable")
	ErrInvalidInput        = errors.New("invalid username")
)

// NoBioPlaceholder is the biography shown when the account has none.
const NoBioPlaceholder = "(No bio)"

// Account represents the public attributes of a social-media account.
// It is created by a successful fetch strategy or by manual entry and is
// never mutated afterwards.
type Account struct {
	Username       string // Handle without @ prefix
	Biography      string
	FollowersCount int
	FollowingCount int
	MediaCount     int
	HasProfilePic  bool
}

// NormalizeUsername trims whitespace and strips a leading @.
func NormalizeUsername(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "@"))
}

// Normalized returns a copy with the username cleaned, negative counts
// clamped to zero, and the biography placeholder applied when empty.
func (a Account) Normalized() Account {
	a.Username = NormalizeUsername(a.Username)
	a.FollowersCount = max(a.FollowersCount, 0)
	a.FollowingCount = max(a.FollowingCount, 0)
	a.MediaCount = max(a.MediaCount, 0)
	if strings.TrimSpace(a.Biography) == "" {
		a.Biography = NoBioPlaceholder
	}
	return a
}

// Package features turns an account into the fixed-order numeric vector the
// classifier was trained on. Column order is part of the model contract and
// must never change without retraining.
package features

import (
	"strings"
	"unicode"

	"github.com/fraudlens/fraudlens/profile"
)

// Columns names the vector positions, in model order.
var Columns = [8]string{
	"followers_count",
	"following_count",
	"media_count",
	"has_profile_pic",
	"bio_length",
	"username_length",
	"digit_count_in_username",
	"followers_following_ratio",
}

// Vector is one account's feature row, indexed per Columns.
type Vector [8]float64

// FromAccount derives the feature vector. The ratio denominator is
// following+1, so it is finite even for accounts that follow nobody.
func FromAccount(a profile.Account) Vector {
	username := strings.TrimSpace(a.Username)
	bio := strings.TrimSpace(a.Biography)

	hasPic := 0.0
	if a.HasProfilePic {
		hasPic = 1.0
	}

	digits := 0
	for _, r := range username {
		if unicode.IsDigit(r) {
			digits++
		}
	}

	return Vector{
		float64(a.FollowersCount),
		float64(a.FollowingCount),
		float64(a.MediaCount),
		hasPic,
		float64(len([]rune(bio))),
		float64(len([]rune(username))),
		float64(digits),
		float64(a.FollowersCount) / float64(a.FollowingCount+1),
	}
}

// Slice returns the vector as a fresh slice for serialization.
func (v Vector) Slice() []float64 {
	out := make([]float64, len(v))
	copy(out, v[:])
	return out
}

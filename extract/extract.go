// Package extract pulls structured account attributes out of raw profile
// documents. All functions are best-effort and never fail: a missing field
// yields its documented default.
//
// The patterns here track the upstream page format and are expected to drift;
// keep them independently tested so format changes stay contained to this
// package.
package extract

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Data holds best-effort attributes parsed from one document.
type Data struct {
	Biography string
	Followers int
	Following int
	Media     int
	HasPic    bool
}

// Pre-compiled patterns for embedded JSON fields.
var (
	bioPattern       = regexp.MustCompile(`"biography":"((?:[^"\\]|\\.)*)"`)
	followedByEdge   = regexp.MustCompile(`"edge_followed_by":\s*\{"count":\s*(\d+)`)
	followEdge       = regexp.MustCompile(`"edge_follow":\s*\{"count":\s*(\d+)`)
	mediaEdge        = regexp.MustCompile(`"edge_owner_to_timeline_media":\s*\{"count":\s*(\d+)`)
	followersMeta    = regexp.MustCompile(`([\d.,]+[KkMm]?)\s+Followers`)
	followingMeta    = regexp.MustCompile(`([\d.,]+[KkMm]?)\s+Following`)
	postsMeta        = regexp.MustCompile(`([\d.,]+[KkMm]?)\s+Posts`)
	countSuffixCheck = regexp.MustCompile(`^[\d.,]+[KkMm]?$`)
)

// Markers whose presence indicates the document carries a profile picture.
// Heuristic, not a guarantee.
var picMarkers = []string{
	`"profile_pic_url"`,
	`"profile_pic_url_hd"`,
	`property="og:image"`,
}

// Page parses a raw profile document. ok is false when nothing usable was
// found: all counts zero and no biography beyond the placeholder. That
// distinguishes "page loaded but empty" from "page loaded with readable data".
func Page(htmlContent string) (Data, bool) {
	d := Data{
		Biography: Bio(htmlContent),
		HasPic:    HasProfilePic(htmlContent),
	}

	d.Followers, d.Following, d.Media = Counts(htmlContent)

	if d.Followers == 0 && d.Following == 0 && d.Media == 0 && d.Biography == "" {
		return Data{}, false
	}
	return d, true
}

// Bio extracts the account biography. Preference order: embedded JSON field,
// ld+json description, meta description tail. Returns "" when absent; the
// caller substitutes the placeholder.
func Bio(htmlContent string) string {
	if matches := bioPattern.FindStringSubmatch(htmlContent); len(matches) > 1 {
		if bio := strings.TrimSpace(decodeEscapes(matches[1])); bio != "" {
			return bio
		}
	}

	if desc := ldJSONDescription(htmlContent); desc != "" {
		return desc
	}

	return ""
}

// Counts extracts follower, following, and post counts. The page metadata
// description is tried first; when all three come back zero the embedded
// edge-count fields are scanned instead.
func Counts(htmlContent string) (followers, following, media int) {
	meta := metaDescription(htmlContent)
	followers = matchCount(followersMeta, meta)
	following = matchCount(followingMeta, meta)
	media = matchCount(postsMeta, meta)

	if followers == 0 && following == 0 && media == 0 {
		followers = matchInt(followedByEdge, htmlContent)
		following = matchInt(followEdge, htmlContent)
		media = matchInt(mediaEdge, htmlContent)
	}
	return followers, following, media
}

// HasProfilePic reports whether any profile-picture URL marker appears in the
// document.
func HasProfilePic(htmlContent string) bool {
	for _, marker := range picMarkers {
		if strings.Contains(htmlContent, marker) {
			return true
		}
	}
	return false
}

// ParseCount normalizes a human-formatted count: thousands separators are
// stripped and a trailing k/m suffix multiplies by 1e3/1e6. Anything
// non-numeric, including malformed suffix combinations, normalizes to 0.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || !countSuffixCheck.MatchString(s) {
		return 0
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(strings.ToLower(s), "k"):
		mult = 1_000
		s = s[:len(s)-1]
	case strings.HasSuffix(strings.ToLower(s), "m"):
		mult = 1_000_000
		s = s[:len(s)-1]
	}

	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0
	}
	return int(math.Round(n * mult))
}

func matchCount(re *regexp.Regexp, s string) int {
	if matches := re.FindStringSubmatch(s); len(matches) > 1 {
		return ParseCount(matches[1])
	}
	return 0
}

func matchInt(re *regexp.Regexp, s string) int {
	if matches := re.FindStringSubmatch(s); len(matches) > 1 {
		n, err := strconv.Atoi(matches[1])
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return 0
}

// metaDescription returns the content of the page's description meta tag,
// trying name=description then og:description.
func metaDescription(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	if content, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		return content
	}
	if content, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return content
	}
	return ""
}

// ldJSONDescription pulls the description field out of a structured-data
// script block, if one exists.
func ldJSONDescription(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var desc string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var block struct {
			Description string `json:"description"`
		}
		if err := json.Unmarshal([]byte(s.Text()), &block); err != nil {
			return true
		}
		if d := strings.TrimSpace(block.Description); d != "" {
			desc = d
			return false
		}
		return true
	})
	return desc
}

// decodeEscapes resolves JSON string escapes (\uXXXX, \n, \") captured from
// an embedded JSON field. Falls back to the raw text when undecodable.
func decodeEscapes(s string) string {
	decoded, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return decoded
}

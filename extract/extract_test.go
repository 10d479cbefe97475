package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"1,234", 1234},
		{"12.3k", 12300},
		{"12.3K", 12300},
		{"1.5m", 1500000},
		{"1.5M", 1500000},
		{"42", 42},
		{"0", 0},
		{"N/A", 0},
		{"", 0},
		{"  987 ", 987},
		{"1.2.3k", 0},
		{"abc", 0},
		{"12k3", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseCount(tt.input)
			if got != tt.want {
				t.Errorf("ParseCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestBioFromEmbeddedJSON(t *testing.T) {
	html := `<html><script>{"biography":"Coffee & code \"daily\"","id":"1"}</script></html>`
	got := Bio(html)
	want := `Coffee & code "daily"`
	if got != want {
		t.Errorf("Bio() = %q, want %q", got, want)
	}
}

func TestBioEscapeSequences(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"escaped quotes",
			`<script>{"biography":"say \"hi\"","id":"1"}</script>`,
			`say "hi"`,
		},
		{
			"escaped backslash before quote",
			`<script>{"biography":"trailing slash \\","id":"1"}</script>`,
			`trailing slash \`,
		},
		{
			"newline and unicode escapes",
			`<script>{"biography":"line one\nline two \u2764","id":"1"}</script>`,
			"line one\nline two \u2764",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bio(tt.html); got != tt.want {
				t.Errorf("Bio() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBioFallsBackToLDJSON(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{"@type":"ProfilePage","description":"Wildlife photographer"}</script>
</head></html>`
	got := Bio(html)
	if got != "Wildlife photographer" {
		t.Errorf("Bio() = %q, want ld+json description", got)
	}
}

func TestBioAbsent(t *testing.T) {
	if got := Bio("<html><body>nothing here</body></html>"); got != "" {
		t.Errorf("Bio() = %q, want empty", got)
	}
}

func TestCountsFromMetaDescription(t *testing.T) {
	html := `<html><head>
<meta name="description" content="1,234 Followers, 567 Following, 89 Posts - photos and videos">
</head></html>`
	followers, following, media := Counts(html)
	if followers != 1234 || following != 567 || media != 89 {
		t.Errorf("Counts() = (%d, %d, %d), want (1234, 567, 89)", followers, following, media)
	}
}

func TestCountsWithSuffixes(t *testing.T) {
	html := `<html><head>
<meta name="description" content="12.3K Followers, 1.5M Following, 321 Posts">
</head></html>`
	followers, following, media := Counts(html)
	if followers != 12300 || following != 1500000 || media != 321 {
		t.Errorf("Counts() = (%d, %d, %d), want (12300, 1500000, 321)", followers, following, media)
	}
}

func TestCountsFallBackToEdges(t *testing.T) {
	html := `<html><script>
{"edge_followed_by":{"count":420},"edge_follow":{"count":69},"edge_owner_to_timeline_media":{"count":7}}
</script></html>`
	followers, following, media := Counts(html)
	if followers != 420 || following != 69 || media != 7 {
		t.Errorf("Counts() = (%d, %d, %d), want (420, 69, 7)", followers, following, media)
	}
}

func TestHasProfilePic(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"embedded url", `{"profile_pic_url":"https://cdn.example/pic.jpg"}`, true},
		{"hd url", `{"profile_pic_url_hd":"https://cdn.example/pic_hd.jpg"}`, true},
		{"og image", `<meta property="og:image" content="https://cdn.example/p.jpg">`, true},
		{"none", `<html><body>hello</body></html>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasProfilePic(tt.html); got != tt.want {
				t.Errorf("HasProfilePic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPage(t *testing.T) {
	html := `<html><head>
<meta name="description" content="1,234 Followers, 567 Following, 89 Posts">
</head><body>
<script>{"biography":"Mountains and code","profile_pic_url":"https://cdn.example/a.jpg"}</script>
</body></html>`

	got, ok := Page(html)
	if !ok {
		t.Fatal("Page() ok = false, want true")
	}

	want := Data{
		Biography: "Mountains and code",
		Followers: 1234,
		Following: 567,
		Media:     89,
		HasPic:    true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Page() mismatch (-want +got):\n%s", diff)
	}
}

// A document with no recognizable markers at all is a total parse failure,
// not a zero-valued profile.
func TestPageTotalParseFailure(t *testing.T) {
	_, ok := Page("<html><head><title>Login</title></head><body>Please log in.</body></html>")
	if ok {
		t.Error("Page() ok = true for unrecognizable document, want false")
	}
}

func TestPageBioOnlyIsUsable(t *testing.T) {
	html := `<script>{"biography":"just a bio"}</script>`
	d, ok := Page(html)
	if !ok {
		t.Fatal("Page() ok = false, want true when a bio is present")
	}
	if d.Biography != "just a bio" {
		t.Errorf("Biography = %q", d.Biography)
	}
}

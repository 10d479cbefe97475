package auth

import (
	"context"
	"testing"
)

func TestNewCookieJar(t *testing.T) {
	cookies := map[string]string{
		"sessionid": "abc123",
		"csrftoken": "xyz789",
	}

	jar, err := NewCookieJar("instagram.com", cookies)
	if err != nil {
		t.Fatalf("NewCookieJar failed: %v", err)
	}

	if jar == nil {
		t.Fatal("jar should not be nil")
	}
}

func TestNewCookieJarEmpty(t *testing.T) {
	jar, err := NewCookieJar("instagram.com", map[string]string{})
	if err != nil {
		t.Fatalf("NewCookieJar failed: %v", err)
	}

	if jar == nil {
		t.Fatal("jar should not be nil even with empty cookies")
	}
}

func TestEnvSource(t *testing.T) {
	t.Setenv(EnvSessionID, "test-session")
	t.Setenv(EnvCSRFToken, "test-csrf")

	src := EnvSource{}
	cookies, err := src.Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}

	if cookies["sessionid"] != "test-session" {
		t.Errorf("sessionid = %q, want %q", cookies["sessionid"], "test-session")
	}
	if cookies["csrftoken"] != "test-csrf" {
		t.Errorf("csrftoken = %q, want %q", cookies["csrftoken"], "test-csrf")
	}
}

func TestEnvSourceNoCookies(t *testing.T) {
	t.Setenv(EnvSessionID, "")
	t.Setenv(EnvCSRFToken, "")

	src := EnvSource{}
	cookies, err := src.Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}

	if cookies != nil {
		t.Error("cookies should be nil when env vars not set")
	}
}

func TestStaticSource(t *testing.T) {
	input := map[string]string{
		"sessionid": "abc123",
		"csrftoken": "xyz789",
	}

	src := NewStaticSource(input)
	cookies, err := src.Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}

	if len(cookies) != 2 {
		t.Errorf("got %d cookies, want 2", len(cookies))
	}

	// Verify it's a copy
	cookies["sessionid"] = "modified"
	cookies2, err := src.Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}
	if cookies2["sessionid"] != "abc123" {
		t.Error("StaticSource should return copies")
	}
}

func TestChainSources(t *testing.T) {
	src1 := NewStaticSource(nil)
	src2 := NewStaticSource(map[string]string{"sessionid": "from-src2"})
	src3 := NewStaticSource(map[string]string{"sessionid": "from-src3"})

	cookies, err := ChainSources(context.Background(), src1, src2, src3)
	if err != nil {
		t.Fatalf("ChainSources failed: %v", err)
	}

	if cookies["sessionid"] != "from-src2" {
		t.Errorf("sessionid = %q, want %q", cookies["sessionid"], "from-src2")
	}
}

func TestChainSourcesAllEmpty(t *testing.T) {
	cookies, err := ChainSources(context.Background(), NewStaticSource(nil), NewStaticSource(nil))
	if err != nil {
		t.Fatalf("ChainSources failed: %v", err)
	}

	if cookies != nil {
		t.Error("cookies should be nil when all sources empty")
	}
}

func TestCredentialsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{"both set", Credentials{Username: "u", Password: "p"}, false},
		{"missing password", Credentials{Username: "u"}, true},
		{"missing username", Credentials{Password: "p"}, true},
		{"neither", Credentials{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv(EnvUsername, "checker")
	t.Setenv(EnvPassword, "hunter2")

	creds := CredentialsFromEnv()
	if creds.Username != "checker" || creds.Password != "hunter2" {
		t.Errorf("CredentialsFromEnv() = %+v", creds)
	}
}

func TestEnvVars(t *testing.T) {
	vars := EnvVars()
	if len(vars) != 2 {
		t.Fatalf("got %d env vars, want 2", len(vars))
	}

	varSet := make(map[string]bool)
	for _, v := range vars {
		varSet[v] = true
	}
	if !varSet[EnvSessionID] || !varSet[EnvCSRFToken] {
		t.Errorf("EnvVars() = %v, want session and csrf vars", vars)
	}
}

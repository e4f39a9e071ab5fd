package browser

import (
	"slices"
	"strings"
	"testing"
)

type recorder struct {
	name string
	args []string
}

func (r *recorder) run(name string, args ...string) error {
	r.name, r.args = name, args
	return nil
}

func TestOpen_UsesPlatformLauncher(t *testing.T) {
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"linux", "xdg-open", []string{"https://example.com/v.mp4"}},
		{"darwin", "open", []string{"https://example.com/v.mp4"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "https://example.com/v.mp4"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			rec := &recorder{}
			err := New(WithRunner(rec.run), WithGOOS(tt.goos)).Open("https://example.com/v.mp4")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.name != tt.name || !slices.Equal(rec.args, tt.args) {
				t.Errorf("got %s %v, want %s %v", rec.name, rec.args, tt.name, tt.args)
			}
		})
	}
}

func TestOpen_UnsupportedPlatform(t *testing.T) {
	err := New(WithRunner((&recorder{}).run), WithGOOS("plan9")).Open("https://example.com")
	if err == nil || !strings.Contains(err.Error(), "unsupported platform") {
		t.Errorf("expected platform error, got %v", err)
	}
}

func TestOpen_RejectsInvalidScheme(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"file scheme", "file:///etc/passwd"},
		{"javascript scheme", "javascript:alert(1)"},
		{"data scheme", "data:text/html,<script>alert(1)</script>"},
		{"ftp scheme", "ftp://example.com"},
		{"no scheme", "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			err := New(WithRunner(rec.run), WithGOOS("linux")).Open(tt.url)
			if err == nil || !strings.Contains(err.Error(), "unsupported URL scheme") {
				t.Errorf("should reject %s with a scheme error, got %v", tt.url, err)
			}
			if rec.name != "" {
				t.Errorf("launcher must not run for %s", tt.url)
			}
		})
	}
}

func TestOpen_RejectsMalformedURL(t *testing.T) {
	for _, raw := range []string{"", "http://example.com\nrm -rf /", "http://example.com\x00", "https://"} {
		rec := &recorder{}
		if err := New(WithRunner(rec.run), WithGOOS("linux")).Open(raw); err == nil {
			t.Errorf("should reject %q", raw)
		}
		if rec.name != "" {
			t.Errorf("launcher must not run for %q", raw)
		}
	}
}

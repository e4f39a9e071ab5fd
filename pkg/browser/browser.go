// Package browser opens media URLs in the system browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Runner starts an external command without waiting for it.
type Runner func(name string, args ...string) error

// Opener opens URLs with the platform's launcher.
type Opener struct {
	run  Runner
	goos string
}

// Option configures an Opener.
type Option func(*Opener)

// WithRunner replaces the command runner, e.g. in tests.
func WithRunner(run Runner) Option {
	return func(o *Opener) { o.run = run }
}

// WithGOOS overrides the detected platform.
func WithGOOS(goos string) Option {
	return func(o *Opener) { o.goos = goos }
}

// New returns an Opener for the current platform.
func New(opts ...Option) *Opener {
	o := &Opener{run: startCommand, goos: runtime.GOOS}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open opens rawURL with the default Opener.
func Open(rawURL string) error {
	return New().Open(rawURL)
}

// Open validates rawURL and hands it to the platform launcher.
func (o *Opener) Open(rawURL string) error {
	if err := Validate(rawURL); err != nil {
		return err
	}

	switch o.goos {
	case "linux", "freebsd", "openbsd":
		return o.run("xdg-open", rawURL)
	case "darwin":
		return o.run("open", rawURL)
	case "windows":
		return o.run("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", o.goos)
	}
}

// Validate accepts absolute http and https URLs only, so nothing else reaches
// the launcher's command line.
func Validate(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https allowed)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	return nil
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start() // #nosec G204 -- URL validated before reaching here
}

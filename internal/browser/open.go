// Package browser launches the web dashboard in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Command returns the command that opens rawURL on goos. Only http and https
// URLs are accepted.
func Command(goos, rawURL string) (*exec.Cmd, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("browser: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("browser: refusing to open %q", rawURL)
	}
	switch goos {
	case "darwin":
		return exec.Command("open", u.String()), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", u.String()), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u.String()), nil
	default:
		return nil, fmt.Errorf("browser: unsupported OS: %s", goos)
	}
}

// Open opens rawURL without waiting for the browser to exit.
func Open(rawURL string) error {
	cmd, err := Command(runtime.GOOS, rawURL)
	if err != nil {
		return err
	}
	return cmd.Start()
}

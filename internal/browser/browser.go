// Package browser opens the controller and display pages on this machine.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Commander starts an external process
type Commander interface {
	Start(name string, args ...string) error
}

// ExecCommander starts processes with os/exec
type ExecCommander struct{}

// Start launches the command without waiting for it
func (ExecCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Launcher opens URLs in the platform's default browser
type Launcher struct {
	commander Commander
	goos      string
}

// New returns a Launcher for the running platform
func New() *Launcher {
	return NewWithCommander(ExecCommander{}, runtime.GOOS)
}

// NewWithCommander returns a Launcher that runs commands for goos through commander
func NewWithCommander(commander Commander, goos string) *Launcher {
	return &Launcher{commander: commander, goos: goos}
}

// Open opens rawURL. Only http and https URLs are accepted.
func (l *Launcher) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: not an http url", rawURL)
	}

	name, args, err := l.command(u.String())
	if err != nil {
		return err
	}
	return l.commander.Start(name, args...)
}

func (l *Launcher) command(target string) (string, []string, error) {
	switch l.goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	case "darwin":
		return "open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", l.goos)
	}
}

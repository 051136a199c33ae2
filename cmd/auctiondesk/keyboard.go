package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/abrezinsky/auctiondesk/internal/logger"
)

// shortcuts maps single key presses to server actions
type shortcuts struct {
	out           io.Writer
	log           logger.Logger
	open          func(url string) error
	controllerURL string
	displayURL    string
	quit          func()
}

// printHelp displays all available keyboard shortcuts
func (s *shortcuts) printHelp() {
	lines := []string{
		fmt.Sprintf("%s%s  Keyboard Shortcuts:%s", bold, green, reset),
		fmt.Sprintf("    %sc%s      - Open controller page in browser", cyan, reset),
		fmt.Sprintf("    %sd%s      - Open display page in browser", cyan, reset),
		fmt.Sprintf("    %sh%s      - Toggle HTTP request logging", cyan, reset),
		fmt.Sprintf("    %sl%s      - Cycle log level (debug → info → warn → error)", cyan, reset),
		fmt.Sprintf("    %sq%s      - Quit server", cyan, reset),
		fmt.Sprintf("    %s?%s      - Show this help", cyan, reset),
	}
	// raw terminals need an explicit carriage return
	fmt.Fprint(s.out, "\r\n"+strings.Join(lines, "\r\n")+"\r\n\r\n")
}

func (s *shortcuts) println(color, format string, args ...any) {
	fmt.Fprintf(s.out, "%s%s%s\r\n", color, fmt.Sprintf(format, args...), reset)
}

// handle runs the action for key. It returns false once the server should stop.
func (s *shortcuts) handle(key byte) bool {
	switch strings.ToLower(string(key)) {
	case "c":
		s.println(cyan, "Opening controller page in browser...")
		if err := s.open(s.controllerURL); err != nil {
			s.println(red, "Error opening browser: %v", err)
		}
	case "d":
		s.println(cyan, "Opening display page in browser...")
		if err := s.open(s.displayURL); err != nil {
			s.println(red, "Error opening browser: %v", err)
		}
	case "h":
		if s.log.IsHTTPLoggingEnabled() {
			s.log.DisableHTTPLogging()
			s.println(yellow, "HTTP logging disabled")
		} else {
			s.log.EnableHTTPLogging()
			s.println(green, "HTTP logging enabled")
		}
	case "l":
		next := logger.NextLevel(s.log.GetLevel())
		s.log.SetLevel(next)
		s.println(green, "Log level: %s%s", yellow, strings.ToLower(next.String()))
	case "?":
		s.printHelp()
	case "q", "\x03": // q or Ctrl+C
		s.println(yellow, "Shutting down server...")
		s.quit()
		return false
	}
	return true
}

// listenForKeyboard reads single key presses from a terminal stdin until
// ctx is done or a quit key is pressed
func listenForKeyboard(ctx context.Context, keys *shortcuts) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Can't switch the terminal to raw mode, silently return
		return
	}
	defer term.Restore(fd, oldState)

	pressed := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 1 {
				pressed <- buf[0]
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case key := <-pressed:
			if !keys.handle(key) {
				return
			}
		}
	}
}

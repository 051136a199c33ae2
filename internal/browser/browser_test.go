package browser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mockCommander records command executions for testing
type mockCommander struct {
	calls      int
	lastName   string
	lastArgs   []string
	startError error
}

func (m *mockCommander) Start(name string, args ...string) error {
	m.calls++
	m.lastName = name
	m.lastArgs = args
	return m.startError
}

func TestLauncher_Open(t *testing.T) {
	const target = "http://localhost:8081/controller"

	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"linux", "xdg-open", []string{target}},
		{"freebsd", "xdg-open", []string{target}},
		{"darwin", "open", []string{target}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", target}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			mock := &mockCommander{}
			if err := NewWithCommander(mock, tt.goos).Open(target); err != nil {
				t.Fatalf("Open: %v", err)
			}
			if mock.lastName != tt.wantName {
				t.Errorf("command = %q, want %q", mock.lastName, tt.wantName)
			}
			if diff := cmp.Diff(tt.wantArgs, mock.lastArgs); diff != "" {
				t.Errorf("args (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLauncher_UnsupportedPlatform(t *testing.T) {
	mock := &mockCommander{}
	err := NewWithCommander(mock, "plan9").Open("http://localhost:8081/display")

	if err == nil || !strings.Contains(err.Error(), "unsupported platform: plan9") {
		t.Errorf("expected unsupported platform error, got %v", err)
	}
	if mock.calls != 0 {
		t.Error("expected no command to run")
	}
}

func TestLauncher_RejectsNonHTTP(t *testing.T) {
	for _, raw := range []string{"file:///etc/passwd", "javascript:alert(1)", "://bad"} {
		t.Run(raw, func(t *testing.T) {
			mock := &mockCommander{}
			if err := NewWithCommander(mock, "linux").Open(raw); err == nil {
				t.Errorf("expected %q to be rejected", raw)
			}
			if mock.calls != 0 {
				t.Error("expected no command to run")
			}
		})
	}
}

func TestLauncher_CommandError(t *testing.T) {
	mock := &mockCommander{startError: errors.New("xdg-open not found")}
	err := NewWithCommander(mock, "linux").Open("https://example.com/display")
	if err == nil || err.Error() != "xdg-open not found" {
		t.Errorf("expected start error, got %v", err)
	}
}

func TestNew_UsesRunningPlatform(t *testing.T) {
	l := New()
	if l.goos == "" {
		t.Error("expected goos to be set")
	}
	if _, ok := l.commander.(ExecCommander); !ok {
		t.Errorf("expected ExecCommander, got %T", l.commander)
	}
}

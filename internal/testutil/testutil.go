package testutil

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/abrezinsky/auctiondesk/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// FixedTime is the start time of clocks returned by NewFakeClock
var FixedTime = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

// NewFakeClock returns a fake clock set to FixedTime
func NewFakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(FixedTime)
}

// Eventually polls cond until it returns true or the timeout passes
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out after %v: %s", timeout, msg)
}

package mock

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/abrezinsky/auctiondesk/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SaveSnapshotError = errors.New("disk full")
//	store := snapshot.NewStore(mockRepo, clock, log, 0)
//	err := store.Save(ctx, state)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Settings Errors =====
	GetSettingError   error
	SetSettingError   error
	ListSettingsError error

	// ===== Snapshot Errors =====
	GetSnapshotError    error
	SaveSnapshotError   error
	DeleteSnapshotError error

	// ===== Health Errors =====
	PingError error

	saveSnapshotCalls   atomic.Int32
	deleteSnapshotCalls atomic.Int32
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) ListSettings(ctx context.Context) (map[string]string, error) {
	if m.ListSettingsError != nil {
		return nil, m.ListSettingsError
	}
	return m.FullRepository.ListSettings(ctx)
}

// ===== Snapshot Methods =====

func (m *Repository) GetSnapshot(ctx context.Context, key string) (*repository.SnapshotRecord, error) {
	if m.GetSnapshotError != nil {
		return nil, m.GetSnapshotError
	}
	return m.FullRepository.GetSnapshot(ctx, key)
}

func (m *Repository) SaveSnapshot(ctx context.Context, key string, data []byte, savedAt time.Time) error {
	m.saveSnapshotCalls.Add(1)
	if m.SaveSnapshotError != nil {
		return m.SaveSnapshotError
	}
	return m.FullRepository.SaveSnapshot(ctx, key, data, savedAt)
}

func (m *Repository) DeleteSnapshot(ctx context.Context, key string) error {
	m.deleteSnapshotCalls.Add(1)
	if m.DeleteSnapshotError != nil {
		return m.DeleteSnapshotError
	}
	return m.FullRepository.DeleteSnapshot(ctx, key)
}

// SaveSnapshotCalls returns how many times SaveSnapshot was called
func (m *Repository) SaveSnapshotCalls() int {
	return int(m.saveSnapshotCalls.Load())
}

// DeleteSnapshotCalls returns how many times DeleteSnapshot was called
func (m *Repository) DeleteSnapshotCalls() int {
	return int(m.deleteSnapshotCalls.Load())
}

// ===== Health Methods =====

func (m *Repository) Ping(ctx context.Context) error {
	if m.PingError != nil {
		return m.PingError
	}
	return m.FullRepository.Ping(ctx)
}

// Ensure Repository implements FullRepository
var _ repository.FullRepository = (*Repository)(nil)

package repository

import (
	"context"
	"time"
)

// SnapshotRecord is a stored snapshot slot
type SnapshotRecord struct {
	Key     string
	Data    []byte
	SavedAt time.Time
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) (map[string]string, error)
}

// SnapshotRepository defines snapshot slot operations. Each key holds at most one snapshot.
type SnapshotRepository interface {
	GetSnapshot(ctx context.Context, key string) (*SnapshotRecord, error)
	SaveSnapshot(ctx context.Context, key string, data []byte, savedAt time.Time) error
	DeleteSnapshot(ctx context.Context, key string) error
}

// HealthRepository reports database liveness
type HealthRepository interface {
	Ping(ctx context.Context) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	SettingsRepository
	SnapshotRepository
	HealthRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)

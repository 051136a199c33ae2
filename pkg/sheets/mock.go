package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MockSource is an in-memory Source for testing
type MockSource struct {
	mu       sync.Mutex
	tables   map[string]*Table
	readErrs map[string]error
	reads    int
}

// MockOption configures the mock source
type MockOption func(*MockSource)

// WithTable sets the table returned for name
func WithTable(name string, t *Table) MockOption {
	return func(m *MockSource) {
		m.tables[name] = t
	}
}

// WithoutTable removes a table so reading it fails with ErrTableNotFound
func WithoutTable(name string) MockOption {
	return func(m *MockSource) {
		delete(m.tables, name)
	}
}

// WithReadError sets an error to return when reading name
func WithReadError(name string, err error) MockOption {
	return func(m *MockSource) {
		m.readErrs[name] = err
	}
}

// NewMockSource creates a mock source seeded with DefaultPlayersTable and DefaultTeamsTable
func NewMockSource(opts ...MockOption) *MockSource {
	m := &MockSource{
		tables: map[string]*Table{
			"players": DefaultPlayersTable(),
			"teams":   DefaultTeamsTable(),
		},
		readErrs: make(map[string]error),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Location returns a fixed description
func (m *MockSource) Location() string {
	return "mock"
}

// ReadTable returns the configured table or error
func (m *MockSource) ReadTable(ctx context.Context, name string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++

	if err := m.readErrs[name]; err != nil {
		return nil, err
	}
	t, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

// SetTable replaces a table after construction (for reset tests)
func (m *MockSource) SetTable(name string, t *Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[name] = t
}

// SetReadError sets or clears the error for name
func (m *MockSource) SetReadError(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.readErrs, name)
		return
	}
	m.readErrs[name] = err
}

// Reads returns how many times ReadTable was called
func (m *MockSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// DefaultPlayersTable returns three players with base prices 1000, 2000 and 1500
func DefaultPlayersTable() *Table {
	return &Table{
		Header: []string{"SNo", "Name", "Role", "BasePrice"},
		Rows: [][]string{
			{"1", "S1", "Batter", "1000"},
			{"2", "S2", "Bowler", "2000"},
			{"3", "S3", "Keeper", "1500"},
		},
	}
}

// DefaultTeamsTable returns two teams with balances 5000 and 3000
func DefaultTeamsTable() *Table {
	return &Table{
		Header: []string{"TeamName", "Balance"},
		Rows: [][]string{
			{"T1", "5000"},
			{"T2", "3000"},
		},
	}
}

// Ensure MockSource implements Source
var _ Source = (*MockSource)(nil)

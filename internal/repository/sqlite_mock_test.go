package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db}, mock
}

func TestGetSetting_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	dbErr := errors.New("database is locked")

	mock.ExpectQuery("SELECT value FROM settings").WithArgs("bid_increment").WillReturnError(dbErr)

	if _, err := repo.GetSetting(context.Background(), "bid_increment"); !errors.Is(err, dbErr) {
		t.Errorf("expected database error, got %v", err)
	}
}

func TestListSettings_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT key, value FROM settings").WillReturnError(errors.New("disk I/O error"))

	if _, err := repo.ListSettings(context.Background()); err == nil {
		t.Error("expected error from query failure, got nil")
	}
}

func TestListSettings_RowError(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("display_title", "Draft").
		RowError(0, errors.New("row corrupted"))
	mock.ExpectQuery("SELECT key, value FROM settings").WillReturnRows(rows)

	if _, err := repo.ListSettings(context.Background()); err == nil {
		t.Error("expected error from row failure, got nil")
	}
}

func TestListSettings_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)

	// a single column cannot be scanned into key and value
	rows := sqlmock.NewRows([]string{"key"}).AddRow("display_title")
	mock.ExpectQuery("SELECT key, value FROM settings").WillReturnRows(rows)

	if _, err := repo.ListSettings(context.Background()); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

func TestGetSnapshot_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	dbErr := errors.New("database is locked")

	mock.ExpectQuery("SELECT data, saved_at FROM snapshots").WithArgs("auction_state").WillReturnError(dbErr)

	rec, err := repo.GetSnapshot(context.Background(), "auction_state")
	if !errors.Is(err, dbErr) {
		t.Errorf("expected database error, got %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record, got %+v", rec)
	}
}

func TestGetSnapshot_BadTimestamp(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"data", "saved_at"}).AddRow([]byte("{}"), "yesterday")
	mock.ExpectQuery("SELECT data, saved_at FROM snapshots").WillReturnRows(rows)

	if _, err := repo.GetSnapshot(context.Background(), "auction_state"); err == nil {
		t.Error("expected error for unparseable timestamp, got nil")
	}
}

func TestSaveSnapshot_ExecError(t *testing.T) {
	repo, mock := newMockRepo(t)
	savedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec("INSERT OR REPLACE INTO snapshots").
		WithArgs("auction_state", []byte("{}"), "2026-01-02T03:04:05Z").
		WillReturnError(errors.New("disk full"))

	if err := repo.SaveSnapshot(context.Background(), "auction_state", []byte("{}"), savedAt); err == nil {
		t.Error("expected error from exec failure, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteSnapshot_ExecError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM snapshots").WithArgs("auction_state").WillReturnError(errors.New("readonly database"))

	if err := repo.DeleteSnapshot(context.Background(), "auction_state"); err == nil {
		t.Error("expected error from exec failure, got nil")
	}
}

func TestSetSetting_ExecError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT OR REPLACE INTO settings").WithArgs("base_url", "http://x").WillReturnError(errors.New("readonly database"))

	if err := repo.SetSetting(context.Background(), "base_url", "http://x"); err == nil {
		t.Error("expected error from exec failure, got nil")
	}
}

func TestMigrate_Error(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS settings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS snapshots").WillReturnError(errors.New("no space"))

	if err := repo.migrate(); err == nil {
		t.Error("expected migration error, got nil")
	}
}

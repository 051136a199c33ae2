package services

import (
	"context"
	"io"

	"github.com/abrezinsky/auctiondesk/internal/models"
)

// AuctionServicer defines the interface for controller operations
type AuctionServicer interface {
	Init(ctx context.Context) error
	State() *models.AuctionState
	Queue() []models.Player
	Report() Report
	Preview(ctx context.Context) ([]models.Player, []models.Team, error)
	SelectBySerial(ctx context.Context, serial int) (*models.AuctionState, error)
	OverrideBase(ctx context.Context, amount int64) (*models.AuctionState, error)
	RaiseBid(ctx context.Context, increment int64) (*models.AuctionState, error)
	RaiseBidDefault(ctx context.Context) (*models.AuctionState, error)
	FinalizeBid(ctx context.Context) (*models.AuctionState, error)
	AwardTo(ctx context.Context, teamIndex int) (*models.AuctionState, error)
	MarkUnsold(ctx context.Context) (*models.AuctionState, error)
	Reset(ctx context.Context) (*models.AuctionState, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	BidIncrement(ctx context.Context) (int64, error)
	SetBidIncrement(ctx context.Context, inc int64) error
	DisplayTitle(ctx context.Context) (string, error)
	SetDisplayTitle(ctx context.Context, title string) error
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, raw string) error
	AllSettings(ctx context.Context) (*Settings, error)
	UpdateSettings(ctx context.Context, update SettingsUpdate) error
}

// ExportServicer defines the interface for result exports
type ExportServicer interface {
	Report() Report
	WriteWorkbook(ctx context.Context, w io.Writer) error
}

// QRServicer defines the interface for display QR codes
type QRServicer interface {
	DisplayURL(ctx context.Context) (string, error)
	DisplayQR(ctx context.Context) ([]byte, error)
}

// Ensure concrete types implement interfaces
var (
	_ AuctionServicer  = (*AuctionService)(nil)
	_ SettingsServicer = (*SettingsService)(nil)
	_ ExportServicer   = (*ExportService)(nil)
	_ QRServicer       = (*QRService)(nil)
)

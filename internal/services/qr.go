package services

import (
	"context"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/auctiondesk/internal/logger"
)

// DisplayPath is the audience page route
const DisplayPath = "/display"

// BaseURLSource supplies the configured external URL
type BaseURLSource interface {
	GetBaseURL(ctx context.Context) (string, error)
}

// QRService renders a QR code pointing at the display page, so a second
// screen can be opened by scanning it from the controller.
type QRService struct {
	log         logger.Logger
	settings    BaseURLSource
	fallbackURL string
}

// NewQRService creates a QRService. fallbackURL is used when no base URL has been saved.
func NewQRService(log logger.Logger, settings BaseURLSource, fallbackURL string) *QRService {
	return &QRService{log: log, settings: settings, fallbackURL: fallbackURL}
}

// DisplayURL returns the absolute URL of the display page
func (s *QRService) DisplayURL(ctx context.Context) (string, error) {
	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return "", err
	}
	if baseURL == "" {
		baseURL = s.fallbackURL
	}
	if baseURL == "" {
		return "", ErrNoDisplayURL
	}
	return strings.TrimSuffix(baseURL, "/") + DisplayPath, nil
}

// DisplayQR returns a PNG QR code of DisplayURL
func (s *QRService) DisplayQR(ctx context.Context) ([]byte, error) {
	target, err := s.DisplayURL(ctx)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(target, qrcode.Medium, 256)
}

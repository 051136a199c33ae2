package services

import (
	"context"
	stderrors "errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/internal/repository"
)

// Setting keys
const (
	SettingBidIncrement = "bid_increment"
	SettingDisplayTitle = "display_title"
	SettingBaseURL      = "base_url"
)

// SettingsDefaults are used for keys that have never been saved
type SettingsDefaults struct {
	BidIncrement int64
	DisplayTitle string
}

// SettingsService handles settings-related business logic
type SettingsService struct {
	log      logger.Logger
	repo     repository.SettingsRepository
	defaults SettingsDefaults
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository, defaults SettingsDefaults) *SettingsService {
	return &SettingsService{log: log, repo: repo, defaults: defaults}
}

// Settings is the editable configuration shown on the controller
type Settings struct {
	BidIncrement int64  `json:"bid_increment"`
	DisplayTitle string `json:"display_title"`
	BaseURL      string `json:"base_url"`
}

// SettingsUpdate carries the fields to change; nil fields are left alone
type SettingsUpdate struct {
	BidIncrement *int64
	DisplayTitle *string
	BaseURL      *string
}

// BidIncrement returns the default raise amount
func (s *SettingsService) BidIncrement(ctx context.Context) (int64, error) {
	value, err := s.repo.GetSetting(ctx, SettingBidIncrement)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return s.defaults.BidIncrement, nil
		}
		return 0, err
	}
	inc, err := strconv.ParseInt(value, 10, 64)
	if err != nil || inc <= 0 {
		s.log.Warn("Ignoring invalid stored bid increment", "value", value)
		return s.defaults.BidIncrement, nil
	}
	return inc, nil
}

// SetBidIncrement saves the default raise amount
func (s *SettingsService) SetBidIncrement(ctx context.Context, inc int64) error {
	if inc <= 0 {
		return ErrInvalidBidIncrement
	}
	return s.repo.SetSetting(ctx, SettingBidIncrement, strconv.FormatInt(inc, 10))
}

// DisplayTitle returns the heading shown on the idle display
func (s *SettingsService) DisplayTitle(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, SettingDisplayTitle)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return s.defaults.DisplayTitle, nil
		}
		return "", err
	}
	return value, nil
}

// SetDisplayTitle saves the idle display heading
func (s *SettingsService) SetDisplayTitle(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyDisplayTitle
	}
	return s.repo.SetSetting(ctx, SettingDisplayTitle, title)
}

// GetBaseURL returns the externally reachable server URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, SettingBaseURL)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return "", nil // No default - setting not yet configured
		}
		return "", err
	}
	return value, nil
}

// SetBaseURL saves the externally reachable server URL. An empty value clears it.
func (s *SettingsService) SetBaseURL(ctx context.Context, raw string) error {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidBaseURL
		}
	}
	return s.repo.SetSetting(ctx, SettingBaseURL, raw)
}

// AllSettings returns every editable setting
func (s *SettingsService) AllSettings(ctx context.Context) (*Settings, error) {
	inc, err := s.BidIncrement(ctx)
	if err != nil {
		return nil, err
	}
	title, err := s.DisplayTitle(ctx)
	if err != nil {
		return nil, err
	}
	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	return &Settings{BidIncrement: inc, DisplayTitle: title, BaseURL: baseURL}, nil
}

// UpdateSettings validates every field before saving any of them
func (s *SettingsService) UpdateSettings(ctx context.Context, update SettingsUpdate) error {
	if update.BidIncrement != nil && *update.BidIncrement <= 0 {
		return ErrInvalidBidIncrement
	}
	if update.DisplayTitle != nil && strings.TrimSpace(*update.DisplayTitle) == "" {
		return ErrEmptyDisplayTitle
	}

	if update.BaseURL != nil {
		if err := s.SetBaseURL(ctx, *update.BaseURL); err != nil {
			return err
		}
	}
	if update.BidIncrement != nil {
		if err := s.SetBidIncrement(ctx, *update.BidIncrement); err != nil {
			return err
		}
	}
	if update.DisplayTitle != nil {
		if err := s.SetDisplayTitle(ctx, *update.DisplayTitle); err != nil {
			return err
		}
	}
	s.log.Info("Settings updated")
	return nil
}

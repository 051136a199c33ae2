package services

import "github.com/abrezinsky/auctiondesk/internal/errors"

// Service errors
var (
	ErrInvalidBidIncrement = errors.InvalidInput("bid increment must be a positive whole amount")
	ErrEmptyDisplayTitle   = errors.InvalidInput("display title cannot be empty")
	ErrInvalidBaseURL      = errors.InvalidInput("base URL must be an absolute http(s) URL")
	ErrNoDisplayURL        = errors.Precondition("base URL not configured")
)

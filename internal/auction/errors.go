package auction

import (
	"github.com/abrezinsky/auctiondesk/internal/errors"
)

// Engine errors. Compare with errors.Is; the kind drives the HTTP status.
var (
	ErrPlayerNotFound    = errors.NotFound("player not found")
	ErrUnknownTeam       = errors.NotFound("team not found")
	ErrNoActiveLot       = errors.Precondition("no player is up for bid")
	ErrBidFinalized      = errors.Precondition("bid is already finalized")
	ErrBidNotFinalized   = errors.Precondition("finalize the bid first")
	ErrRosterFull        = errors.Precondition("team roster is full")
	ErrInsufficientFunds = errors.Precondition("insufficient balance")
	ErrNegativeAmount    = errors.InvalidInput("amount cannot be negative")
	ErrInvalidIncrement  = errors.InvalidInput("increment must be positive")
	ErrBidTooLarge       = errors.InvalidInput("bid is too large")
)

// Package auction holds the lot state machine. Every transition takes a state
// and returns a new one; the input is never modified, so a rejected operation
// leaves the caller's state exactly as it was.
package auction

import (
	"fmt"
	"math"

	"github.com/abrezinsky/auctiondesk/internal/models"
)

// New seeds a fresh auction from an imported roster. The first player, if
// any, is put up for bid.
func New(players []models.Player, teams []models.Team) *models.AuctionState {
	s := &models.AuctionState{
		RemainingPlayers: make([]models.Player, len(players)),
		Teams:            make([]models.Team, len(teams)),
	}
	copy(s.RemainingPlayers, players)
	for i, t := range teams {
		t.AcquiredPlayers = []models.Player{}
		t.PlayersTaken = 0
		s.Teams[i] = t
	}
	return advance(s.Clone())
}

// Empty returns the idle state with no roster loaded.
func Empty() *models.AuctionState {
	return &models.AuctionState{
		RemainingPlayers: []models.Player{},
		Teams:            []models.Team{},
		Phase:            models.PhaseIdle,
	}
}

// SelectBySerial puts the remaining player with the given serial number up for bid.
func SelectBySerial(s *models.AuctionState, serial int) (*models.AuctionState, error) {
	idx := indexOf(s.RemainingPlayers, serial)
	if idx < 0 {
		return nil, fmt.Errorf("%w: serial %d", ErrPlayerNotFound, serial)
	}

	next := s.Clone()
	p := next.RemainingPlayers[idx]
	next.CurrentIndex = idx
	next.CurrentPlayer = &p
	next.CurrentBid = p.BasePrice
	setPhase(next, models.PhaseBidding)
	return next, nil
}

// OverrideBase replaces the live bid with amount and reopens bidding.
// The player's stored base price is left alone.
func OverrideBase(s *models.AuctionState, amount int64) (*models.AuctionState, error) {
	if s.CurrentPlayer == nil {
		return nil, ErrNoActiveLot
	}
	if amount < 0 {
		return nil, ErrNegativeAmount
	}

	next := s.Clone()
	next.CurrentBid = amount
	setPhase(next, models.PhaseBidding)
	return next, nil
}

// RaiseBid adds increment to the live bid. Only int64 range bounds it;
// balances are checked when the lot is awarded.
func RaiseBid(s *models.AuctionState, increment int64) (*models.AuctionState, error) {
	switch {
	case s.CurrentPlayer == nil:
		return nil, ErrNoActiveLot
	case s.Phase == models.PhaseFinalized:
		return nil, ErrBidFinalized
	case increment <= 0:
		return nil, ErrInvalidIncrement
	case increment > math.MaxInt64-s.CurrentBid:
		return nil, fmt.Errorf("%w: %d + %d", ErrBidTooLarge, s.CurrentBid, increment)
	}

	next := s.Clone()
	next.CurrentBid += increment
	return next, nil
}

// FinalizeBid locks the live bid. Finalizing twice is allowed.
func FinalizeBid(s *models.AuctionState) (*models.AuctionState, error) {
	if s.CurrentPlayer == nil {
		return nil, ErrNoActiveLot
	}

	next := s.Clone()
	setPhase(next, models.PhaseFinalized)
	return next, nil
}

// AwardTo sells the current player to teams[teamIndex] at the finalized bid.
func AwardTo(s *models.AuctionState, teamIndex, rosterCap int) (*models.AuctionState, error) {
	if s.CurrentPlayer == nil {
		return nil, ErrNoActiveLot
	}
	if s.Phase != models.PhaseFinalized {
		return nil, ErrBidNotFinalized
	}
	if teamIndex < 0 || teamIndex >= len(s.Teams) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownTeam, teamIndex)
	}
	if s.CurrentBid < 0 {
		return nil, fmt.Errorf("%w: bid is %d", ErrNegativeAmount, s.CurrentBid)
	}
	team := s.Teams[teamIndex]
	if team.PlayersTaken >= capFor(team, rosterCap) {
		return nil, fmt.Errorf("%w: %s has %d players", ErrRosterFull, team.Name, team.PlayersTaken)
	}
	if team.Balance < s.CurrentBid {
		return nil, fmt.Errorf("%w: %s has %d, bid is %d", ErrInsufficientFunds, team.Name, team.Balance, s.CurrentBid)
	}

	idx := lotIndex(s)
	if idx < 0 {
		return nil, fmt.Errorf("%w: serial %d", ErrPlayerNotFound, s.CurrentPlayer.SerialNumber)
	}

	next := s.Clone()
	sold := next.RemainingPlayers[idx]
	price := next.CurrentBid
	sold.SoldPrice = &price

	t := &next.Teams[teamIndex]
	t.Balance -= price
	t.AcquiredPlayers = append(t.AcquiredPlayers, sold)
	t.PlayersTaken = len(t.AcquiredPlayers)

	next.RemainingPlayers = append(next.RemainingPlayers[:idx], next.RemainingPlayers[idx+1:]...)
	return advance(next), nil
}

// MarkUnsold bumps the current player's unsold count. The player stays in
// the pool and the pointer goes back to the first remaining player.
func MarkUnsold(s *models.AuctionState) (*models.AuctionState, error) {
	if s.CurrentPlayer == nil {
		return nil, ErrNoActiveLot
	}
	idx := lotIndex(s)
	if idx < 0 {
		return nil, fmt.Errorf("%w: serial %d", ErrPlayerNotFound, s.CurrentPlayer.SerialNumber)
	}

	next := s.Clone()
	next.RemainingPlayers[idx].UnsoldCount++
	return advance(next), nil
}

package auction

import (
	"fmt"

	"github.com/abrezinsky/auctiondesk/internal/errors"
	"github.com/abrezinsky/auctiondesk/internal/models"
)

// advance moves the pointer to the first remaining player and opens bidding
// at its base price, or goes idle when the pool is empty. s is modified.
func advance(s *models.AuctionState) *models.AuctionState {
	s.CurrentIndex = 0
	if len(s.RemainingPlayers) == 0 {
		s.CurrentPlayer = nil
		s.CurrentBid = 0
		setPhase(s, models.PhaseIdle)
		return s
	}
	p := s.RemainingPlayers[0]
	s.CurrentPlayer = &p
	s.CurrentBid = p.BasePrice
	setPhase(s, models.PhaseBidding)
	return s
}

func setPhase(s *models.AuctionState, phase models.LotPhase) {
	s.Phase = phase
	s.BidFinalized = phase == models.PhaseFinalized
}

func indexOf(players []models.Player, serial int) int {
	for i, p := range players {
		if p.SerialNumber == serial {
			return i
		}
	}
	return -1
}

// lotIndex locates the current player in the pool, trusting CurrentIndex
// when it still points at the same serial.
func lotIndex(s *models.AuctionState) int {
	serial := s.CurrentPlayer.SerialNumber
	if s.CurrentIndex >= 0 && s.CurrentIndex < len(s.RemainingPlayers) &&
		s.RemainingPlayers[s.CurrentIndex].SerialNumber == serial {
		return s.CurrentIndex
	}
	return indexOf(s.RemainingPlayers, serial)
}

func capFor(t models.Team, rosterCap int) int {
	if t.RosterCap > 0 {
		return t.RosterCap
	}
	if rosterCap > 0 {
		return rosterCap
	}
	return models.DefaultRosterCap
}

// Validate checks the invariants every reachable state satisfies. It is used
// to reject snapshots that could not have been produced by this package.
func Validate(s *models.AuctionState, rosterCap int) error {
	if s == nil {
		return errors.Validation("state is missing")
	}

	seen := make(map[int]string)
	claim := func(serial int, where string) error {
		if prev, ok := seen[serial]; ok {
			return errors.Validationf("serial %d appears in %s and %s", serial, prev, where)
		}
		seen[serial] = where
		return nil
	}

	for _, p := range s.RemainingPlayers {
		if err := claim(p.SerialNumber, "remaining players"); err != nil {
			return err
		}
		if p.SoldPrice != nil {
			return errors.Validationf("unsold player %d has a sold price", p.SerialNumber)
		}
		if p.BasePrice < 0 || p.UnsoldCount < 0 {
			return errors.Validationf("player %d has negative fields", p.SerialNumber)
		}
	}

	names := make(map[string]bool)
	for _, t := range s.Teams {
		if names[t.Name] {
			return errors.Validationf("duplicate team %q", t.Name)
		}
		names[t.Name] = true

		if t.Balance < 0 {
			return errors.Validationf("team %q has negative balance %d", t.Name, t.Balance)
		}
		if t.PlayersTaken != len(t.AcquiredPlayers) {
			return errors.Validationf("team %q count %d does not match roster of %d", t.Name, t.PlayersTaken, len(t.AcquiredPlayers))
		}
		if t.PlayersTaken > capFor(t, rosterCap) {
			return errors.Validationf("team %q exceeds roster cap", t.Name)
		}
		for _, p := range t.AcquiredPlayers {
			if err := claim(p.SerialNumber, fmt.Sprintf("team %q", t.Name)); err != nil {
				return err
			}
			if p.SoldPrice == nil {
				return errors.Validationf("player %d on team %q has no sold price", p.SerialNumber, t.Name)
			}
		}
	}

	if s.CurrentBid < 0 {
		return errors.Validation("current bid is negative")
	}

	if s.CurrentPlayer == nil {
		if s.Phase != models.PhaseIdle {
			return errors.Validationf("phase %q without a current player", s.Phase)
		}
		return nil
	}

	if s.Phase != models.PhaseBidding && s.Phase != models.PhaseFinalized {
		return errors.Validationf("phase %q with a current player", s.Phase)
	}
	if s.BidFinalized != (s.Phase == models.PhaseFinalized) {
		return errors.Validation("bidFinalized disagrees with phase")
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.RemainingPlayers) ||
		s.RemainingPlayers[s.CurrentIndex].SerialNumber != s.CurrentPlayer.SerialNumber {
		return errors.Validationf("current player %d is not at index %d", s.CurrentPlayer.SerialNumber, s.CurrentIndex)
	}
	return nil
}

// Package snapshot persists the latest auction state in a single durable slot
// so observers that start late, or restart, can recover without waiting for a
// broadcast.
package snapshot

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/abrezinsky/auctiondesk/internal/auction"
	"github.com/abrezinsky/auctiondesk/internal/errors"
	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/internal/models"
	"github.com/abrezinsky/auctiondesk/internal/repository"
)

// Key is the slot the auction state is stored under
const Key = "auction_state"

// Snapshot is a restored state and when it was written
type Snapshot struct {
	State   *models.AuctionState
	SavedAt time.Time
}

// Store reads and writes the snapshot slot
type Store struct {
	repo      repository.SnapshotRepository
	clock     clockwork.Clock
	log       logger.Logger
	rosterCap int
}

// NewStore creates a snapshot store. rosterCap is used when validating
// restored states.
func NewStore(repo repository.SnapshotRepository, clock clockwork.Clock, log logger.Logger, rosterCap int) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{repo: repo, clock: clock, log: log, rosterCap: rosterCap}
}

// Save replaces the slot with state
func (s *Store) Save(ctx context.Context, state *models.AuctionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "encoding snapshot")
	}
	if err := s.repo.SaveSnapshot(ctx, Key, data, s.clock.Now()); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "saving snapshot")
	}
	return nil
}

// Load returns the saved snapshot. ok is false when the slot is empty. A slot
// that cannot be decoded, or holds a state that fails validation, is deleted
// and reported as empty.
func (s *Store) Load(ctx context.Context) (snap *Snapshot, ok bool, err error) {
	return s.read(ctx, true)
}

// Peek is Load for observers: an unusable slot is reported as empty but left
// in place for the controller to discard.
func (s *Store) Peek(ctx context.Context) (snap *Snapshot, ok bool, err error) {
	return s.read(ctx, false)
}

func (s *Store) read(ctx context.Context, discard bool) (*Snapshot, bool, error) {
	rec, err := s.repo.GetSnapshot(ctx, Key)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrInternal, "reading snapshot")
	}

	state, decodeErr := Decode(rec.Data)
	if decodeErr == nil {
		decodeErr = auction.Validate(state, s.rosterCap)
	}
	if decodeErr != nil {
		if !discard {
			s.log.Debug("Ignoring unusable snapshot", "saved_at", rec.SavedAt, "error", decodeErr)
			return nil, false, nil
		}
		s.log.Warn("Discarding unusable snapshot", "saved_at", rec.SavedAt, "error", decodeErr)
		if err := s.repo.DeleteSnapshot(ctx, Key); err != nil {
			return nil, false, errors.Wrap(err, errors.ErrInternal, "discarding snapshot")
		}
		return nil, false, nil
	}

	return &Snapshot{State: state, SavedAt: rec.SavedAt}, true, nil
}

// Clear empties the slot
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.DeleteSnapshot(ctx, Key); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "clearing snapshot")
	}
	return nil
}

// Decode parses a serialized state, filling the lot phase for snapshots that
// only carry bidFinalized.
func Decode(data []byte) (*models.AuctionState, error) {
	var state models.AuctionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation, "decoding snapshot")
	}
	state.Normalize()
	return &state, nil
}

// Package channel is the sync channel between the controller and its
// observers: every state is written to the snapshot slot and then broadcast.
package channel

import (
	"context"

	"github.com/abrezinsky/auctiondesk/internal/errors"
	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/internal/models"
	"github.com/abrezinsky/auctiondesk/internal/snapshot"
	"github.com/abrezinsky/auctiondesk/internal/websocket"
)

// SnapshotStore is the durable slot the channel writes through
type SnapshotStore interface {
	Save(ctx context.Context, state *models.AuctionState) error
	Load(ctx context.Context) (*snapshot.Snapshot, bool, error)
	Peek(ctx context.Context) (*snapshot.Snapshot, bool, error)
	Clear(ctx context.Context) error
}

// Broadcaster delivers messages to live observers
type Broadcaster interface {
	Publish(ctx context.Context, msg models.SyncMessage) error
	Subscribe(handler websocket.Handler) func()
}

// Channel keeps the snapshot slot and the broadcast in step
type Channel struct {
	store SnapshotStore
	hub   Broadcaster
	log   logger.Logger
}

// New creates a sync channel
func New(store SnapshotStore, hub Broadcaster, log logger.Logger) *Channel {
	return &Channel{store: store, hub: hub, log: log}
}

// Publish saves state and broadcasts a copy of it. The broadcast is sent even
// when saving fails, so live observers stay current; the save error is returned.
func (c *Channel) Publish(ctx context.Context, state *models.AuctionState) error {
	if state == nil {
		return errors.Internalf("publishing nil state")
	}
	out := state.Clone()

	saveErr := c.store.Save(ctx, out)
	if saveErr != nil {
		c.log.Error("Snapshot write failed", "error", saveErr)
	}

	if err := c.hub.Publish(ctx, models.SyncMessage{State: out}); err != nil {
		c.log.Warn("Broadcast failed", "error", err)
		if saveErr == nil {
			return errors.Wrap(err, errors.ErrInternal, "broadcasting state")
		}
	}
	return saveErr
}

// Reset clears the snapshot slot and broadcasts the reset signal
func (c *Channel) Reset(ctx context.Context) error {
	clearErr := c.store.Clear(ctx)
	if clearErr != nil {
		c.log.Error("Snapshot clear failed", "error", clearErr)
	}

	if err := c.hub.Publish(ctx, models.SyncMessage{Reset: true}); err != nil {
		c.log.Warn("Reset broadcast failed", "error", err)
		if clearErr == nil {
			return errors.Wrap(err, errors.ErrInternal, "broadcasting reset")
		}
	}
	return clearErr
}

// Restore returns the persisted state, if any. An unusable snapshot is
// discarded; only the controller restores.
func (c *Channel) Restore(ctx context.Context) (*models.AuctionState, bool, error) {
	return stateOf(c.store.Load(ctx))
}

// Latest returns the persisted state for observers without touching the slot
func (c *Channel) Latest(ctx context.Context) (*models.AuctionState, bool, error) {
	return stateOf(c.store.Peek(ctx))
}

func stateOf(snap *snapshot.Snapshot, ok bool, err error) (*models.AuctionState, bool, error) {
	if err != nil || !ok {
		return nil, false, err
	}
	return snap.State, true, nil
}

// Subscribe registers handler for messages published from now on
func (c *Channel) Subscribe(handler func(models.SyncMessage)) func() {
	return c.hub.Subscribe(handler)
}

// Package display is the read-only side of the sync channel. An Observer keeps
// the latest broadcast state and renders the audience view from it.
package display

import (
	"context"
	"sync"

	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/internal/models"
)

// DefaultTitle is shown when the auction has no current lot
const DefaultTitle = "Auction Dashboard"

// Source is where an observer reads state from. Latest must not modify the
// persisted slot.
type Source interface {
	Latest(ctx context.Context) (*models.AuctionState, bool, error)
	Subscribe(handler func(models.SyncMessage)) func()
}

// TeamSummary is one team's line on the display
type TeamSummary struct {
	Name         string `json:"name"`
	Balance      int64  `json:"balance"`
	PlayersTaken int    `json:"playersTaken"`
	SlotsLeft    int    `json:"slotsLeft"`
}

// View is what the audience screen shows
type View struct {
	Idle          bool           `json:"idle"`
	Title         string         `json:"title"`
	CurrentPlayer *models.Player `json:"currentPlayer,omitempty"`
	CurrentBid    int64          `json:"currentBid"`
	BidFinalized  bool           `json:"bidFinalized"`
	Teams         []TeamSummary  `json:"teams"`
}

// Observer mirrors the controller's state. It never writes.
type Observer struct {
	source Source
	log    logger.Logger
	title  func() string

	mu       sync.RWMutex
	state    *models.AuctionState
	received uint64
	stop     func()
}

// New creates an observer. title supplies the idle heading; nil uses DefaultTitle.
func New(source Source, log logger.Logger, title func() string) *Observer {
	if title == nil {
		title = func() string { return DefaultTitle }
	}
	return &Observer{source: source, log: log, title: title}
}

// Start subscribes to broadcasts and restores the persisted snapshot once.
// A broadcast that arrives while the snapshot is loading wins over it.
func (o *Observer) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.stop != nil {
		o.mu.Unlock()
		return nil
	}
	o.stop = o.source.Subscribe(o.apply)
	before := o.received
	o.mu.Unlock()

	state, ok, err := o.source.Latest(ctx)
	if err != nil {
		o.log.Warn("Display could not restore snapshot", "error", err)
		return err
	}
	if !ok {
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.received == before {
		o.state = state
	}
	return nil
}

// Stop unsubscribes from broadcasts
func (o *Observer) Stop() {
	o.mu.Lock()
	stop := o.stop
	o.stop = nil
	o.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (o *Observer) apply(msg models.SyncMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.received++
	if msg.Reset {
		o.state = nil
		o.log.Debug("Display reset")
		return
	}
	o.state = msg.State
}

// State returns a copy of the last state seen, or nil
func (o *Observer) State() *models.AuctionState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state.Clone()
}

// View renders the current state
func (o *Observer) View() View {
	return Render(o.State(), o.title())
}

// Render builds the display view for state. A nil state or one with no
// current player is the idle view.
func Render(state *models.AuctionState, title string) View {
	if title == "" {
		title = DefaultTitle
	}
	if state == nil || state.CurrentPlayer == nil {
		return View{Idle: true, Title: title, Teams: []TeamSummary{}}
	}

	teams := make([]TeamSummary, 0, len(state.Teams))
	for _, t := range state.Teams {
		teams = append(teams, TeamSummary{
			Name:         t.Name,
			Balance:      t.Balance,
			PlayersTaken: t.PlayersTaken,
			SlotsLeft:    t.SlotsLeft(),
		})
	}
	player := *state.CurrentPlayer
	return View{
		Title:         title,
		CurrentPlayer: &player,
		CurrentBid:    state.CurrentBid,
		BidFinalized:  state.BidFinalized,
		Teams:         teams,
	}
}

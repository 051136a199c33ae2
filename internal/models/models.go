package models

import (
	"encoding/json"
	"fmt"
)

// DefaultRosterCap is the number of players a team may acquire
const DefaultRosterCap = 8

// LotPhase is the lifecycle stage of the lot under the hammer
type LotPhase string

const (
	PhaseIdle      LotPhase = "idle"      // no current player
	PhaseBidding   LotPhase = "bidding"   // bid may be raised or overridden
	PhaseFinalized LotPhase = "finalized" // bid locked, waiting for award or unsold
)

// Player represents an auctionable player
type Player struct {
	SerialNumber int    `json:"serialNumber"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	BasePrice    int64  `json:"basePrice"`
	SoldPrice    *int64 `json:"soldPrice,omitempty"` // set only once the player joins a team
	UnsoldCount  int    `json:"unsoldCount"`
	PhotoFile    string `json:"photoFile,omitempty"`
}

// Team represents a bidding team and its roster
type Team struct {
	Name            string   `json:"name"`
	Balance         int64    `json:"balance"`
	RosterCap       int      `json:"rosterCap"`
	AcquiredPlayers []Player `json:"acquiredPlayers"`
	PlayersTaken    int      `json:"playersTaken"`
}

// SlotsLeft returns how many more players the team may acquire
func (t Team) SlotsLeft() int {
	if left := t.RosterCap - t.PlayersTaken; left > 0 {
		return left
	}
	return 0
}

// AuctionState is the synchronized snapshot owned by the controller
type AuctionState struct {
	RemainingPlayers []Player `json:"remainingPlayers"`
	Teams            []Team   `json:"teams"`
	CurrentIndex     int      `json:"currentIndex"`
	CurrentPlayer    *Player  `json:"currentPlayer"`
	CurrentBid       int64    `json:"currentBid"`
	Phase            LotPhase `json:"phase"`
	BidFinalized     bool     `json:"bidFinalized"`
	ShowIntro        bool     `json:"showIntro,omitempty"`
}

// Normalize fills Phase for snapshots that only carry bidFinalized and
// keeps the two fields in agreement.
func (s *AuctionState) Normalize() {
	switch {
	case s.CurrentPlayer == nil:
		s.Phase = PhaseIdle
	case s.Phase == "" || s.Phase == PhaseIdle:
		if s.BidFinalized {
			s.Phase = PhaseFinalized
		} else {
			s.Phase = PhaseBidding
		}
	}
	s.BidFinalized = s.Phase == PhaseFinalized
}

// Clone returns a deep copy of the state
func (s *AuctionState) Clone() *AuctionState {
	if s == nil {
		return nil
	}
	c := *s
	c.RemainingPlayers = clonePlayers(s.RemainingPlayers)
	if s.Teams != nil {
		c.Teams = make([]Team, len(s.Teams))
		for i, t := range s.Teams {
			t.AcquiredPlayers = clonePlayers(t.AcquiredPlayers)
			c.Teams[i] = t
		}
	}
	if s.CurrentPlayer != nil {
		p := clonePlayer(*s.CurrentPlayer)
		c.CurrentPlayer = &p
	}
	return &c
}

func clonePlayers(in []Player) []Player {
	if in == nil {
		return nil
	}
	out := make([]Player, len(in))
	for i, p := range in {
		out[i] = clonePlayer(p)
	}
	return out
}

func clonePlayer(p Player) Player {
	if p.SoldPrice != nil {
		price := *p.SoldPrice
		p.SoldPrice = &price
	}
	return p
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Broadcast message types
const (
	MessageState = "state"
	MessageReset = "reset"
)

// ChannelName is the single logical broadcast channel shared by all observers
const ChannelName = "auction_sync_channel"

// ResetSignal is the payload of a reset message
type ResetSignal struct {
	Reset bool `json:"reset"`
}

// SyncMessage is a decoded broadcast: either a full state or a reset
type SyncMessage struct {
	Reset bool
	State *AuctionState
}

// WSMessage converts the sync message to its wire envelope
func (m SyncMessage) WSMessage() WSMessage {
	if m.Reset {
		return WSMessage{Type: MessageReset, Payload: ResetSignal{Reset: true}}
	}
	return WSMessage{Type: MessageState, Payload: m.State}
}

// ParseSyncMessage decodes a wire envelope received from the broadcast channel
func ParseSyncMessage(data []byte) (SyncMessage, error) {
	var envelope struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return SyncMessage{}, fmt.Errorf("decoding envelope: %w", err)
	}

	switch envelope.Type {
	case MessageReset:
		return SyncMessage{Reset: true}, nil
	case MessageState:
		var state AuctionState
		if err := json.Unmarshal(envelope.Payload, &state); err != nil {
			return SyncMessage{}, fmt.Errorf("decoding state: %w", err)
		}
		state.Normalize()
		return SyncMessage{State: &state}, nil
	default:
		return SyncMessage{}, fmt.Errorf("unknown message type %q", envelope.Type)
	}
}

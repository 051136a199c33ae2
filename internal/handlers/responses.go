package handlers

import "github.com/abrezinsky/auctiondesk/internal/models"

// ImportResponse is the response for a roster import
type ImportResponse struct {
	Success bool            `json:"success"`
	Players []models.Player `json:"players,omitempty"`
	Teams   []models.Team   `json:"teams,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// QueueResponse lists the players still to be auctioned
type QueueResponse struct {
	Players []models.Player `json:"players"`
	Count   int             `json:"count"`
}

// SnapshotResponse is the persisted state as observers restore it
type SnapshotResponse struct {
	State *models.AuctionState `json:"state"`
}

// DisplayURLResponse carries the URL encoded in the display QR code
type DisplayURLResponse struct {
	URL string `json:"url"`
}

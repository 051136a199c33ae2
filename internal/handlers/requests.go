package handlers

// SelectRequest puts a player up for bid by serial number
type SelectRequest struct {
	Serial *int `json:"serial"`
}

// OverrideRequest replaces the current bid
type OverrideRequest struct {
	Amount *int64 `json:"amount"`
}

// RaiseRequest raises the bid. Without an increment the configured default is used.
type RaiseRequest struct {
	Increment *int64 `json:"increment"`
}

// AwardRequest sells the current player to a team
type AwardRequest struct {
	TeamIndex *int `json:"team_index"`
}

// SettingsUpdateRequest represents a request to update settings
type SettingsUpdateRequest struct {
	BidIncrement *int64  `json:"bid_increment"`
	DisplayTitle *string `json:"display_title"`
	BaseURL      *string `json:"base_url"`
}

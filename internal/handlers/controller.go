package handlers

import (
	"bytes"
	"net/http"

	"github.com/abrezinsky/auctiondesk/internal/models"
	"github.com/abrezinsky/auctiondesk/internal/services"
)

// ==================== Roster ====================

// handleImport reads the roster without touching the live auction.
// Failures are reported in the body, matching the import probe contract.
func (h *Handlers) handleImport(w http.ResponseWriter, r *http.Request) {
	players, teams, err := h.Auction.Preview(r.Context())
	if err != nil {
		h.Log.Warn("Roster import failed", "error", err)
		respondOK(w, ImportResponse{Success: false, Error: err.Error()})
		return
	}
	respondOK(w, ImportResponse{Success: true, Players: players, Teams: teams})
}

// ==================== State ====================

func (h *Handlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Auction.State())
}

func (h *Handlers) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	queue := h.Auction.Queue()
	respondOK(w, QueueResponse{Players: queue, Count: len(queue)})
}

// ==================== Controller ====================

func (h *Handlers) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Serial == nil {
		h.fail(w, r, Validation("serial is required"))
		return
	}

	state, err := h.Auction.SelectBySerial(r.Context(), *req.Serial)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleOverride(w http.ResponseWriter, r *http.Request) {
	var req OverrideRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Amount == nil {
		h.fail(w, r, Validation("amount is required"))
		return
	}

	state, err := h.Auction.OverrideBase(r.Context(), *req.Amount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleRaise(w http.ResponseWriter, r *http.Request) {
	var req RaiseRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	var state *models.AuctionState
	var err error
	if req.Increment == nil {
		state, err = h.Auction.RaiseBidDefault(r.Context())
	} else {
		state, err = h.Auction.RaiseBid(r.Context(), *req.Increment)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleFinalize(w http.ResponseWriter, r *http.Request) {
	state, err := h.Auction.FinalizeBid(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleAward(w http.ResponseWriter, r *http.Request) {
	var req AwardRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.TeamIndex == nil {
		h.fail(w, r, Validation("team_index is required"))
		return
	}

	state, err := h.Auction.AwardTo(r.Context(), *req.TeamIndex)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleUnsold(w http.ResponseWriter, r *http.Request) {
	state, err := h.Auction.MarkUnsold(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleReset(w http.ResponseWriter, r *http.Request) {
	state, err := h.Auction.Reset(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, state)
}

// ==================== Results ====================

func (h *Handlers) handleReport(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Export.Report())
}

func (h *Handlers) handleExport(w http.ResponseWriter, r *http.Request) {
	// Buffer so a failed write can still produce an error response
	var buf bytes.Buffer
	if err := h.Export.WriteWorkbook(r.Context(), &buf); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.ExportFilename+`"`)
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

func (h *Handlers) handleDisplayQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.QR.DisplayQR(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.AllSettings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	update := services.SettingsUpdate{
		BidIncrement: req.BidIncrement,
		DisplayTitle: req.DisplayTitle,
		BaseURL:      req.BaseURL,
	}
	if err := h.Settings.UpdateSettings(r.Context(), update); err != nil {
		h.fail(w, r, err)
		return
	}

	h.Log.Info("Settings updated")
	h.handleGetSettings(w, r)
}

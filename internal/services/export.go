package services

import (
	"context"
	"io"

	"github.com/abrezinsky/auctiondesk/internal/errors"
	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/internal/models"
	"github.com/abrezinsky/auctiondesk/pkg/sheets"
)

// Export workbook layout
const (
	ExportFilename  = "auction_results.xlsx"
	SoldSheetName   = "Sold Players"
	UnsoldSheetName = "Unsold Players"
)

// SoldRow is one acquired player
type SoldRow struct {
	Team   string `json:"team"`
	Player string `json:"player"`
	Role   string `json:"role"`
	Price  int64  `json:"price"`
}

// UnsoldRow is one player still in the queue
type UnsoldRow struct {
	SNo       int    `json:"sno"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	BasePrice int64  `json:"basePrice"`
}

// Report is the end-of-auction summary
type Report struct {
	Sold   []SoldRow   `json:"sold"`
	Unsold []UnsoldRow `json:"unsold"`
}

// BuildReport lists acquired players team by team in purchase order, then every
// remaining player with the base price from the roster.
func BuildReport(state *models.AuctionState) Report {
	r := Report{Sold: []SoldRow{}, Unsold: []UnsoldRow{}}
	if state == nil {
		return r
	}
	for _, team := range state.Teams {
		for _, p := range team.AcquiredPlayers {
			var price int64
			if p.SoldPrice != nil {
				price = *p.SoldPrice
			}
			r.Sold = append(r.Sold, SoldRow{Team: team.Name, Player: p.Name, Role: p.Role, Price: price})
		}
	}
	for _, p := range state.RemainingPlayers {
		r.Unsold = append(r.Unsold, UnsoldRow{SNo: p.SerialNumber, Name: p.Name, Role: p.Role, BasePrice: p.BasePrice})
	}
	return r
}

// StateSource provides the state to export
type StateSource interface {
	State() *models.AuctionState
}

// ExportService writes auction results as a spreadsheet
type ExportService struct {
	log    logger.Logger
	source StateSource
}

// NewExportService creates a new ExportService
func NewExportService(log logger.Logger, source StateSource) *ExportService {
	return &ExportService{log: log, source: source}
}

// Report builds the report for the current state
func (s *ExportService) Report() Report {
	return BuildReport(s.source.State())
}

// WriteWorkbook writes the two-sheet results workbook to w
func (s *ExportService) WriteWorkbook(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	report := s.Report()

	sold := sheets.Sheet{Name: SoldSheetName, Header: []string{"Team", "Player", "Role", "Price"}}
	for _, row := range report.Sold {
		sold.Rows = append(sold.Rows, []any{row.Team, row.Player, row.Role, row.Price})
	}
	unsold := sheets.Sheet{Name: UnsoldSheetName, Header: []string{"SNo", "Name", "Role", "BasePrice"}}
	for _, row := range report.Unsold {
		unsold.Rows = append(unsold.Rows, []any{row.SNo, row.Name, row.Role, row.BasePrice})
	}

	if err := sheets.WriteWorkbook(w, []sheets.Sheet{sold, unsold}); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "writing results workbook")
	}
	s.log.Info("Results exported", "sold", len(report.Sold), "unsold", len(report.Unsold))
	return nil
}

// Package roster loads the players and teams an auction is seeded with.
package roster

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/abrezinsky/auctiondesk/internal/errors"
	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/internal/models"
	"github.com/abrezinsky/auctiondesk/pkg/sheets"
)

// Table names read from the source
const (
	PlayersTable = "players"
	TeamsTable   = "teams"
)

// Column names. Matching is case-insensitive.
const (
	ColSerial    = "SNo"
	ColName      = "Name"
	ColRole      = "Role"
	ColBasePrice = "BasePrice"
	ColPhotoFile = "PhotoFile"
	ColTeamName  = "TeamName"
	ColBalance   = "Balance"
)

// Store reads the roster from a tabular source
type Store struct {
	source    sheets.Source
	rosterCap int
	log       logger.Logger
}

// NewStore creates a roster store. A rosterCap of 0 or less uses models.DefaultRosterCap.
func NewStore(source sheets.Source, rosterCap int, log logger.Logger) *Store {
	if rosterCap <= 0 {
		rosterCap = models.DefaultRosterCap
	}
	return &Store{source: source, rosterCap: rosterCap, log: log}
}

// RosterCap returns the cap applied to imported teams
func (s *Store) RosterCap() int {
	return s.rosterCap
}

// Load reads and validates both tables. Any failure is an import error and
// no partial roster is returned.
func (s *Store) Load(ctx context.Context) ([]models.Player, []models.Team, error) {
	playersTable, err := s.source.ReadTable(ctx, PlayersTable)
	if err != nil {
		return nil, nil, errors.Import(err, "cannot read players")
	}
	teamsTable, err := s.source.ReadTable(ctx, TeamsTable)
	if err != nil {
		return nil, nil, errors.Import(err, "cannot read teams")
	}

	players, err := ParsePlayers(playersTable)
	if err != nil {
		return nil, nil, err
	}
	teams, err := ParseTeams(teamsTable, s.rosterCap)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("Roster loaded", "source", s.source.Location(), "players", len(players), "teams", len(teams))
	return players, teams, nil
}

// ParsePlayers converts a players table into models. Blank rows are skipped.
func ParsePlayers(t *sheets.Table) ([]models.Player, error) {
	cols, err := requireColumns(PlayersTable, t, ColSerial, ColName, ColRole, ColBasePrice)
	if err != nil {
		return nil, err
	}
	photoCol := t.Column(ColPhotoFile)

	players := []models.Player{}
	seen := make(map[int]int)
	for i, row := range t.Rows {
		if sheets.BlankRow(row) {
			continue
		}
		line := i + 2

		serial, err := parseWhole(sheets.Cell(row, cols[0]))
		if err != nil {
			return nil, errors.Importf("players row %d: %s %v", line, ColSerial, err)
		}
		if prev, ok := seen[int(serial)]; ok {
			return nil, errors.Importf("players row %d: serial %d already used on row %d", line, serial, prev)
		}
		seen[int(serial)] = line

		name := sheets.Cell(row, cols[1])
		if name == "" {
			return nil, errors.Importf("players row %d: %s is empty", line, ColName)
		}

		base, err := parseWhole(sheets.Cell(row, cols[3]))
		if err != nil {
			return nil, errors.Importf("players row %d: %s %v", line, ColBasePrice, err)
		}
		if base < 0 {
			return nil, errors.Importf("players row %d: %s cannot be negative", line, ColBasePrice)
		}

		players = append(players, models.Player{
			SerialNumber: int(serial),
			Name:         name,
			Role:         sheets.Cell(row, cols[2]),
			BasePrice:    base,
			PhotoFile:    sheets.Cell(row, photoCol),
		})
	}
	return players, nil
}

// ParseTeams converts a teams table into models with empty rosters
func ParseTeams(t *sheets.Table, rosterCap int) ([]models.Team, error) {
	cols, err := requireColumns(TeamsTable, t, ColTeamName, ColBalance)
	if err != nil {
		return nil, err
	}

	teams := []models.Team{}
	seen := make(map[string]bool)
	for i, row := range t.Rows {
		if sheets.BlankRow(row) {
			continue
		}
		line := i + 2

		name := sheets.Cell(row, cols[0])
		if name == "" {
			return nil, errors.Importf("teams row %d: %s is empty", line, ColTeamName)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, errors.Importf("teams row %d: duplicate team %q", line, name)
		}
		seen[key] = true

		balance, err := parseWhole(sheets.Cell(row, cols[1]))
		if err != nil {
			return nil, errors.Importf("teams row %d: %s %v", line, ColBalance, err)
		}
		if balance < 0 {
			return nil, errors.Importf("teams row %d: %s cannot be negative", line, ColBalance)
		}

		teams = append(teams, models.Team{
			Name:            name,
			Balance:         balance,
			RosterCap:       rosterCap,
			AcquiredPlayers: []models.Player{},
		})
	}
	return teams, nil
}

func requireColumns(table string, t *sheets.Table, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	var missing []string
	for i, n := range names {
		idx[i] = t.Column(n)
		if idx[i] < 0 {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Importf("%s: missing required columns %s", table, strings.Join(missing, ", "))
	}
	return idx, nil
}

type parseError string

func (e parseError) Error() string { return string(e) }

// parseWhole accepts integers and whole-valued decimals such as "1000.0"
// (spreadsheets store every number as a float).
func parseWhole(raw string) (int64, error) {
	if raw == "" {
		return 0, parseError("is empty")
	}
	clean := strings.ReplaceAll(raw, ",", "")
	if n, err := strconv.ParseInt(clean, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, parseError("is not a number: " + strconv.Quote(raw))
	}
	if f != math.Trunc(f) {
		return 0, parseError("must be a whole amount: " + strconv.Quote(raw))
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, parseError("is out of range: " + strconv.Quote(raw))
	}
	return int64(f), nil
}

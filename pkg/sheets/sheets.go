// Package sheets reads and writes the tabular files the auction is seeded
// from and exported to. Workbooks are handled with excelize; a CSV file with
// the same base name is accepted when no workbook exists.
package sheets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abrezinsky/auctiondesk/internal/logger"
)

// ErrTableNotFound is returned when neither <name>.xlsx nor <name>.csv exists
var ErrTableNotFound = errors.New("table not found")

// Table is a header row plus data rows. Rows may be shorter than the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the named column, matching case-insensitively
// and ignoring surrounding whitespace, or -1.
func (t *Table) Column(name string) int {
	want := normalize(name)
	for i, h := range t.Header {
		if normalize(h) == want {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value at idx, or "" when the row is short or idx < 0
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// BlankRow reports whether every cell in row is empty
func BlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

// Source defines the interface for reading named tables
type Source interface {
	// ReadTable returns the table stored under name
	ReadTable(ctx context.Context, name string) (*Table, error)
	// Location describes where tables are read from, for logs
	Location() string
}

// FileSource reads tables from <dir>/<name>.xlsx, or <dir>/<name>.csv
type FileSource struct {
	dir string
	log logger.Logger
}

// NewFileSource creates a source rooted at dir
func NewFileSource(dir string, log logger.Logger) *FileSource {
	return &FileSource{dir: dir, log: log}
}

// Location returns the data directory
func (s *FileSource) Location() string {
	return s.dir
}

// ReadTable reads the first sheet of <name>.xlsx, falling back to <name>.csv
func (s *FileSource) ReadTable(ctx context.Context, name string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	xlsxPath := filepath.Join(s.dir, name+".xlsx")
	f, err := excelize.OpenFile(xlsxPath)
	if err == nil {
		defer f.Close()
		sheetsList := f.GetSheetList()
		if len(sheetsList) == 0 {
			return nil, fmt.Errorf("%s: workbook has no sheets", xlsxPath)
		}
		s.log.Debug("Reading workbook", "path", xlsxPath, "sheet", sheetsList[0])
		return readSheet(f, sheetsList[0])
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("opening %s: %w", xlsxPath, err)
	}

	csvPath := filepath.Join(s.dir, name+".csv")
	file, err := os.Open(csvPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s.xlsx or %s.csv in %s", ErrTableNotFound, name, name, s.dir)
		}
		return nil, fmt.Errorf("opening %s: %w", csvPath, err)
	}
	defer file.Close()

	s.log.Debug("Reading CSV", "path", csvPath)
	table, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", csvPath, err)
	}
	return table, nil
}

// ReadCSV parses a CSV stream whose first record is the header
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return toTable(records), nil
}

func readSheet(f *excelize.File, sheet string) (*Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return toTable(rows), nil
}

func toTable(records [][]string) *Table {
	t := &Table{Header: []string{}, Rows: [][]string{}}
	if len(records) == 0 {
		return t
	}
	t.Header = records[0]
	t.Rows = records[1:]
	return t
}

// Ensure FileSource implements Source
var _ Source = (*FileSource)(nil)

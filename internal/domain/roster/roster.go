// Package roster ingests the canonical student roster sheet.
package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/xparky/portal/internal/adapters/drive"
	"github.com/xparky/portal/pkg/logger"
)

// Column headers the roster sheet must carry. Position is optional; when
// present the configured cohort filter applies.
const (
	colStudentNumber = "Student Number"
	colFirstName     = "First Name"
	colLastName      = "Last Name"
	colPosition      = "Position"
)

// Default roster configuration constants.
const (
	defaultSheetName = "Data"
	defaultPosition  = "Data and ML Cadet"
)

// Record is one roster student. All fields are whitespace-trimmed.
type Record struct {
	StudentNumber string
	FirstName     string
	LastName      string
}

// Source reads and validates the roster spreadsheet.
type Source struct {
	sheets        drive.SheetReader
	spreadsheetID string
	sheetName     string
	position      string
	log           logger.Logger
}

// New creates a roster source for one spreadsheet.
func New(sheets drive.SheetReader, spreadsheetID string, opts ...Option) *Source {
	s := &Source{
		sheets:        sheets,
		spreadsheetID: spreadsheetID,
		sheetName:     defaultSheetName,
		position:      defaultPosition,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.Get()
	}

	return s
}

// Load fetches the roster and validates its shape. A fetch failure, an empty
// sheet, or a missing required column yields ErrUnavailable so the caller
// can degrade to unmerged totals. Rows with a blank student number are
// dropped; rows not matching the cohort filter are skipped when the
// Position column exists.
func (s *Source) Load(ctx context.Context) ([]Record, error) {
	table, err := s.sheets.SheetValues(ctx, s.spreadsheetID, s.sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if table == nil {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrUnavailable, s.sheetName)
	}

	num := table.ColumnIndex(colStudentNumber)
	first := table.ColumnIndex(colFirstName)
	last := table.ColumnIndex(colLastName)
	if num < 0 || first < 0 || last < 0 {
		return nil, fmt.Errorf("%w: sheet %q is missing required columns", ErrUnavailable, s.sheetName)
	}

	position := table.ColumnIndex(colPosition)

	records := make([]Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		if s.position != "" && position >= 0 && row[position] != s.position {
			continue
		}

		rec := Record{
			StudentNumber: strings.TrimSpace(row[num]),
			FirstName:     strings.TrimSpace(row[first]),
			LastName:      strings.TrimSpace(row[last]),
		}
		if rec.StudentNumber == "" {
			s.log.Debug(ctx, "roster row without student number dropped")
			continue
		}
		records = append(records, rec)
	}

	s.log.Debug(ctx, "roster loaded",
		logger.String("spreadsheet_id", s.spreadsheetID),
		logger.Int("students", len(records)),
	)
	return records, nil
}

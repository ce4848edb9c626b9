package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"news-timeline-go/internal/types"
)

const (
	ColumnPublishDate  = "publish_date"
	ColumnHeadlineText = "headline_text"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyTable    = errors.New("no header row")
)

// Table is the raw header plus data rows of an input file.
type Table struct {
	Header []string
	Rows   []types.RawRow
}

// Load reads a .csv or .xlsx table (first sheet) and extracts the two columns
// the pipeline needs. Extra columns are ignored; blank lines are skipped.
func Load(path string) (Table, error) {
	rows, err := readTable(path)
	if err != nil {
		return Table{}, err
	}
	return tableFromRows(rows)
}

func readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

func tableFromRows(rows [][]string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, ErrEmptyTable
	}
	header := rows[0]
	dateIdx, textIdx := -1, -1
	for i, h := range header {
		switch normalizeHeader(h) {
		case ColumnPublishDate:
			if dateIdx == -1 {
				dateIdx = i
			}
		case ColumnHeadlineText:
			if textIdx == -1 {
				textIdx = i
			}
		}
	}
	if dateIdx == -1 {
		return Table{}, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnPublishDate)
	}
	if textIdx == -1 {
		return Table{}, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnHeadlineText)
	}

	out := Table{Header: header}
	for i, r := range rows {
		if i == 0 || isBlank(r) {
			continue
		}
		out.Rows = append(out.Rows, types.RawRow{
			Line:         i + 1,
			PublishDate:  cell(r, dateIdx),
			HeadlineText: cell(r, textIdx),
		})
	}
	return out, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.TrimSpace(h)
}

func cell(r []string, idx int) string {
	if idx < len(r) {
		return r[idx]
	}
	return ""
}

func isBlank(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

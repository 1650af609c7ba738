package tradelog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Column header synonyms recognized during detection, all compared
// lowercase with surrounding whitespace trimmed.
var (
	symbolHeaders   = []string{"symbol", "ticker", "instrument"}
	entryHeaders    = []string{"entry_time", "open_time", "entry time", "entry"}
	exitHeaders     = []string{"exit_time", "close_time", "exit time", "exit"}
	rawPnLHeaders   = []string{"pnl_pct", "pnl %", "return_pct", "return %", "profit_pct"}
	adjustedHeaders = []string{"adjusted_pnl_pct", "adj_pnl_pct", "capped_pnl_pct", "adjusted pnl %"}
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load reads a trade log from a CSV or Excel file, dispatching on the
// file extension.
func Load(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported trade log format: %s (use .csv or .xlsx)", filepath.Ext(path))
	}
}

func loadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV trade log: %w", err)
	}

	return parseRows(rows)
}

func loadXLSX(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel trade log: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel trade log has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return parseRows(rows)
}

// columnIndexes maps detected columns to their position in the header row.
// A value of -1 means the column is absent.
type columnIndexes struct {
	symbol   int
	entry    int
	exit     int
	rawPnL   int
	adjusted int
}

func detectColumns(header []string) (columnIndexes, error) {
	idx := columnIndexes{symbol: -1, entry: -1, exit: -1, rawPnL: -1, adjusted: -1}

	find := func(names []string) int {
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(h))
			for _, name := range names {
				if h == name {
					return i
				}
			}
		}
		return -1
	}

	idx.symbol = find(symbolHeaders)
	idx.entry = find(entryHeaders)
	idx.exit = find(exitHeaders)
	idx.rawPnL = find(rawPnLHeaders)
	idx.adjusted = find(adjustedHeaders)

	if idx.rawPnL == -1 && idx.adjusted == -1 {
		return idx, fmt.Errorf("no PnL column found (looked for %s)", strings.Join(rawPnLHeaders, ", "))
	}
	return idx, nil
}

func parseRows(rows [][]string) ([]Record, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("trade log has no data rows")
	}

	idx, err := detectColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		rec, err := parseRecord(row, idx)
		if err != nil {
			return nil, fmt.Errorf("trade log row %d: %w", n+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(row []string, idx columnIndexes) (Record, error) {
	var rec Record

	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec.Symbol = cell(idx.symbol)

	if v := cell(idx.entry); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return rec, fmt.Errorf("bad entry time %q: %w", v, err)
		}
		rec.EntryTime = t
	}
	if v := cell(idx.exit); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return rec, fmt.Errorf("bad exit time %q: %w", v, err)
		}
		rec.ExitTime = t
	}

	if v := cell(idx.rawPnL); v != "" {
		pnl, err := parsePercent(v)
		if err != nil {
			return rec, fmt.Errorf("bad PnL value %q: %w", v, err)
		}
		rec.PnLPct = pnl
		rec.HasRaw = true
	} else if idx.rawPnL >= 0 {
		return rec, fmt.Errorf("missing PnL value")
	}

	if v := cell(idx.adjusted); v != "" {
		pnl, err := parsePercent(v)
		if err != nil {
			return rec, fmt.Errorf("bad adjusted PnL value %q: %w", v, err)
		}
		rec.AdjustedPnLPct = pnl
		rec.HasAdjusted = true
	}

	return rec, nil
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// parsePercent accepts "2.5" and "2.5%" alike.
func parsePercent(value string) (float64, error) {
	value = strings.TrimSuffix(strings.TrimSpace(value), "%")
	return strconv.ParseFloat(value, 64)
}

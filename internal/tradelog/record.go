// Package tradelog loads historical trade records from CSV or Excel files
// and turns them into the clean decimal return array the simulation engine
// consumes: column selection, unit normalization and filtering all happen
// here, upstream of the engine.
package tradelog

import "time"

// Record is one historical trade as it appears in an exported trade log.
// PnL columns are in percent units; conversion to decimal fractions
// happens during extraction.
type Record struct {
	Symbol    string
	EntryTime time.Time
	ExitTime  time.Time

	// PnLPct is the raw per-trade return in percent (2.0 = +2%).
	// HasRaw reports whether the source row actually carried it; a log
	// may ship only the adjusted column.
	PnLPct float64
	HasRaw bool

	// AdjustedPnLPct is the pre-capped/adjusted-loss variant some logs
	// carry alongside the raw column. HasAdjusted reports whether the
	// source row had it.
	AdjustedPnLPct float64
	HasAdjusted    bool
}

// FilterBySymbol keeps records matching symbol; an empty symbol keeps all.
func FilterBySymbol(records []Record, symbol string) []Record {
	if symbol == "" {
		return records
	}
	var filtered []Record
	for _, r := range records {
		if r.Symbol == symbol {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterByDateRange keeps records whose exit time falls within [from, to].
// Zero bounds are open ends. Records without an exit time always survive.
func FilterByDateRange(records []Record, from, to time.Time) []Record {
	if from.IsZero() && to.IsZero() {
		return records
	}
	var filtered []Record
	for _, r := range records {
		if r.ExitTime.IsZero() {
			filtered = append(filtered, r)
			continue
		}
		if !from.IsZero() && r.ExitTime.Before(from) {
			continue
		}
		if !to.IsZero() && r.ExitTime.After(to) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

package tradelog

import (
	"fmt"
	"math"
	"time"

	"github.com/quantdesk/strategy-sim/internal/montecarlo"
)

// ExtractOptions narrows a trade log down to the returns fed into the
// simulation engine.
type ExtractOptions struct {
	// Symbol keeps only trades on one instrument; empty keeps all.
	Symbol string

	// From/To bound the exit time; zero values are open ends.
	From time.Time
	To   time.Time

	// RawOnly forces the raw PnL column even when an adjusted one exists.
	RawOnly bool
}

// Returns converts trade records into the decimal return array consumed by
// the engine. The adjusted/capped PnL column is preferred when every
// filtered record carries it; a log with a missing or partial adjusted
// column falls back to the raw one. Falling back requires every record to
// actually carry a raw value — an adjusted-only log with gaps is an error,
// never a silent zero. Percent units are normalized to decimal fractions,
// and the engine's minimum trade count is enforced here so the caller
// fails before any simulation work begins.
func Returns(records []Record, opts ExtractOptions) ([]float64, error) {
	filtered := FilterByDateRange(FilterBySymbol(records, opts.Symbol), opts.From, opts.To)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no trades left after filtering")
	}

	useAdjusted := !opts.RawOnly
	for _, r := range filtered {
		if !r.HasAdjusted {
			useAdjusted = false
			break
		}
	}

	if !useAdjusted {
		for i, r := range filtered {
			if !r.HasRaw {
				if opts.RawOnly {
					return nil, fmt.Errorf("trade %d has no raw PnL value (log carries only adjusted PnL)", i)
				}
				return nil, fmt.Errorf("trade %d has neither a raw nor an adjusted PnL value", i)
			}
		}
	}

	returns := make([]float64, len(filtered))
	for i, r := range filtered {
		pct := r.PnLPct
		if useAdjusted {
			pct = r.AdjustedPnLPct
		}
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			return nil, fmt.Errorf("trade %d has a non-finite return", i)
		}
		returns[i] = pct / 100
	}

	if len(returns) < montecarlo.MinTradeCount {
		return nil, fmt.Errorf("need at least %d trades to simulate, got: %d", montecarlo.MinTradeCount, len(returns))
	}
	return returns, nil
}

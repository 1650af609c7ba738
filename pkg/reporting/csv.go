package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/quantdesk/strategy-sim/internal/montecarlo"
)

// WriteDistributionsCSV writes one row per completed run with every
// per-run metric. Infinite ratio values render as "+Inf".
func WriteDistributionsCSV(res *montecarlo.Results, path string) error {
	f, err := createWithDir(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"Run",
		"Max_Drawdown",
		"Final_Equity",
		"Min_Equity",
		"CAGR",
		"Sharpe",
		"Sortino",
		"Calmar",
		"Max_Win_Streak",
		"Max_Loss_Streak",
		"Recovery_Factor",
		"Profit_Factor",
		"Mean_DD_Duration",
		"Max_DD_Duration",
	}); err != nil {
		return err
	}

	runs := res.Runs
	for i := 0; i < res.CompletedRuns; i++ {
		row := []string{
			strconv.Itoa(i + 1),
			formatFloat(runs.MaxDrawdown[i]),
			formatFloat(runs.FinalEquity[i]),
			formatFloat(runs.MinEquity[i]),
			formatFloat(runs.CAGR[i]),
			formatFloat(runs.Sharpe[i]),
			formatFloat(runs.Sortino[i]),
			formatFloat(runs.Calmar[i]),
			strconv.Itoa(runs.MaxWinStreak[i]),
			strconv.Itoa(runs.MaxLossStreak[i]),
			formatFloat(runs.RecoveryFactor[i]),
			formatFloat(runs.ProfitFactor[i]),
			formatFloat(runs.MeanDrawdownDuration[i]),
			strconv.Itoa(runs.MaxDrawdownDuration[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteEquityBandsCSV writes the per-trade-index percentile band matrix,
// one row per trade.
func WriteEquityBandsCSV(res *montecarlo.Results, path string) error {
	f, err := createWithDir(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"Trade"}
	for _, p := range montecarlo.EquityBandPercentiles {
		header = append(header, fmt.Sprintf("P%.0f", p))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for j, row := range res.EquityBands {
		record := []string{strconv.Itoa(j + 1)}
		for _, v := range row {
			record = append(record, formatFloat(v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func createWithDir(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// formatFloat renders +Inf as-is; strconv spells it "+Inf" which is
// exactly the sentinel consumers expect.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package reporting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/quantdesk/strategy-sim/internal/montecarlo"
)

// WriteResultsXLSX writes a workbook with Summary, Distributions and
// Equity Bands sheets.
func WriteResultsXLSX(res *montecarlo.Results, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, res); err != nil {
		return err
	}
	if err := writeDistributionsSheet(f, res); err != nil {
		return err
	}
	if err := writeBandsSheet(f, res); err != nil {
		return err
	}

	// Replace the default sheet with Summary as the landing page.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	idx, err := f.GetSheetIndex("Summary")
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	return f.SaveAs(path)
}

func writeSummarySheet(f *excelize.File, res *montecarlo.Results) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	s := res.Summary
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Completed Runs", res.CompletedRuns},
		{"Cancelled", res.Cancelled},
		{"Sampling Mode", string(res.Config.Sampling)},
		{"Sizing Mode", string(res.Config.Sizing)},
		{"Initial Capital", res.Config.InitialCapital},
		{"VaR", s.VaR},
		{"CVaR", s.CVaR},
		{"Drawdown P50", s.DrawdownP50},
		{"Drawdown P95", s.DrawdownP95},
		{"Drawdown P99", s.DrawdownP99},
		{"Final Equity P5", s.FinalEquityP5},
		{"Final Equity P95", s.FinalEquityP95},
		{"Mean CAGR", s.MeanCAGR},
		{"Median CAGR", s.MedianCAGR},
		{"Mean Sharpe", s.MeanSharpe},
		{"Mean Sortino", s.MeanSortino},
		{"Mean Calmar", s.MeanCalmar},
		{"Mean Recovery Factor", s.MeanRecoveryFactor},
		{"Mean Profit Factor", s.MeanProfitFactor},
		{"Mean Max Win Streak", s.MeanMaxWinStreak},
		{"Mean Max Loss Streak", s.MeanMaxLossStreak},
		{"Max Drawdown Duration", s.MaxDrawdownDuration},
		{"Risk of Ruin", s.RiskOfRuin},
		{"Probability of Profit", s.ProbabilityOfProfit},
	}

	for i, row := range rows {
		for j, v := range row {
			if err := setCell(f, sheet, j+1, i+1, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeDistributionsSheet(f *excelize.File, res *montecarlo.Results) error {
	const sheet = "Distributions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{
		"Run", "Max Drawdown", "Final Equity", "Min Equity", "CAGR",
		"Sharpe", "Sortino", "Calmar", "Max Win Streak", "Max Loss Streak",
		"Recovery Factor", "Profit Factor", "Mean DD Duration", "Max DD Duration",
	}
	for j, v := range header {
		if err := setCell(f, sheet, j+1, 1, v); err != nil {
			return err
		}
	}

	runs := res.Runs
	for i := 0; i < res.CompletedRuns; i++ {
		row := []interface{}{
			i + 1,
			runs.MaxDrawdown[i],
			runs.FinalEquity[i],
			runs.MinEquity[i],
			runs.CAGR[i],
			runs.Sharpe[i],
			runs.Sortino[i],
			runs.Calmar[i],
			runs.MaxWinStreak[i],
			runs.MaxLossStreak[i],
			runs.RecoveryFactor[i],
			runs.ProfitFactor[i],
			runs.MeanDrawdownDuration[i],
			runs.MaxDrawdownDuration[i],
		}
		for j, v := range row {
			if err := setCell(f, sheet, j+1, i+2, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeBandsSheet(f *excelize.File, res *montecarlo.Results) error {
	const sheet = "Equity Bands"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	if err := setCell(f, sheet, 1, 1, "Trade"); err != nil {
		return err
	}
	for k, p := range montecarlo.EquityBandPercentiles {
		if err := setCell(f, sheet, k+2, 1, fmt.Sprintf("P%.0f", p)); err != nil {
			return err
		}
	}

	for j, row := range res.EquityBands {
		if err := setCell(f, sheet, 1, j+2, j+1); err != nil {
			return err
		}
		for k, v := range row {
			if err := setCell(f, sheet, k+2, j+2, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// setCell writes one value, spelling out infinite floats since xlsx cells
// cannot hold them.
func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if fv, ok := v.(float64); ok && math.IsInf(fv, 0) {
		if fv > 0 {
			return f.SetCellValue(sheet, cell, "+Inf")
		}
		return f.SetCellValue(sheet, cell, "-Inf")
	}
	return f.SetCellValue(sheet, cell, v)
}

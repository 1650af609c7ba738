// Package reporting renders simulation results to the console and to
// JSON, CSV and Excel files.
package reporting

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/quantdesk/strategy-sim/internal/montecarlo"
)

// ConsoleReporter prints a result summary to stdout.
type ConsoleReporter struct{}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// OutputResults prints the run summary and distribution tables.
func (r *ConsoleReporter) OutputResults(res *montecarlo.Results) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	if res.Cancelled {
		fmt.Printf("⚠️  MONTE CARLO RESULTS (cancelled after %d of %d runs)\n", res.CompletedRuns, res.Config.Simulations)
	} else {
		fmt.Printf("📊 MONTE CARLO RESULTS (%d runs)\n", res.CompletedRuns)
	}
	fmt.Println(strings.Repeat("=", 60))

	r.printSummaryTable(res)
	if res.CompletedRuns > 0 {
		r.printDistributionTable(res)
	}
}

func (r *ConsoleReporter) printSummaryTable(res *montecarlo.Results) {
	s := res.Summary

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendRows([]table.Row{
		{"Sampling", string(res.Config.Sampling)},
		{"Sizing", string(res.Config.Sizing)},
		{"Initial Capital", fmt.Sprintf("$%.2f", res.Config.InitialCapital)},
		{"VaR (returns)", formatPct(s.VaR)},
		{"CVaR (returns)", formatPct(s.CVaR)},
		{"Risk of Ruin", formatPct(s.RiskOfRuin)},
		{"Probability of Profit", formatPct(s.ProbabilityOfProfit)},
		{"Mean CAGR", formatPct(s.MeanCAGR)},
		{"Median CAGR", formatPct(s.MedianCAGR)},
		{"Mean Sharpe", formatRatio(s.MeanSharpe)},
		{"Mean Sortino", formatRatio(s.MeanSortino)},
		{"Mean Calmar", formatRatio(s.MeanCalmar)},
		{"Mean Recovery Factor", formatRatio(s.MeanRecoveryFactor)},
		{"Mean Profit Factor", formatRatio(s.MeanProfitFactor)},
		{"Mean Max Win Streak", fmt.Sprintf("%.1f", s.MeanMaxWinStreak)},
		{"Mean Max Loss Streak", fmt.Sprintf("%.1f", s.MeanMaxLossStreak)},
		{"Max Drawdown Duration", fmt.Sprintf("%d trades", s.MaxDrawdownDuration)},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
}

func (r *ConsoleReporter) printDistributionTable(res *montecarlo.Results) {
	s := res.Summary

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Distribution", "Percentile", "Value"})
	t.AppendRows([]table.Row{
		{"Max Drawdown", "P50", formatPct(s.DrawdownP50)},
		{"Max Drawdown", "P95", formatPct(s.DrawdownP95)},
		{"Max Drawdown", "P99", formatPct(s.DrawdownP99)},
		{"Final Equity", "P5", fmt.Sprintf("$%.2f", s.FinalEquityP5)},
		{"Final Equity", "P95", fmt.Sprintf("$%.2f", s.FinalEquityP95)},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

func formatPct(v float64) string {
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

// formatRatio renders +Inf explicitly; it is a legitimate
// undefined-but-favorable value, not an error.
func formatRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	return fmt.Sprintf("%.2f", v)
}

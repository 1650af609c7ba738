package montecarlo

import (
	"math"
	"sort"
)

// aggregate reduces the collected per-run arrays into summary statistics
// and assembles the final immutable result. The per-run slices in dist
// must already be truncated to completed.
func aggregate(original []float64, cfg Config, dist *RunDistributions, curves [][]float64, completed int) *Results {
	s := Summary{}

	// VaR/CVaR describe the original (unsampled) return distribution, not
	// the simulated runs.
	s.VaR, s.CVaR = valueAtRisk(original, cfg.VaRConfidencePct)

	if completed > 0 {
		drawdowns := sortedCopy(dist.MaxDrawdown)
		s.DrawdownP50 = percentile(drawdowns, 50)
		s.DrawdownP95 = percentile(drawdowns, 95)
		s.DrawdownP99 = percentile(drawdowns, 99)

		equities := sortedCopy(dist.FinalEquity)
		s.FinalEquityP5 = percentile(equities, 5)
		s.FinalEquityP95 = percentile(equities, 95)

		s.MeanCAGR = mean(dist.CAGR)
		s.MedianCAGR = percentile(sortedCopy(dist.CAGR), 50)

		s.MeanSharpe = finiteMean(dist.Sharpe)
		s.MeanSortino = finiteMean(dist.Sortino)
		s.MeanCalmar = finiteMean(dist.Calmar)
		s.MeanRecoveryFactor = finiteMean(dist.RecoveryFactor)
		s.MeanProfitFactor = finiteMean(dist.ProfitFactor)

		s.MeanMaxWinStreak = meanInt(dist.MaxWinStreak)
		s.MeanMaxLossStreak = meanInt(dist.MaxLossStreak)

		s.MeanDrawdownDuration = mean(dist.MeanDrawdownDuration)
		s.MaxDrawdownDuration = maxInt(dist.MaxDrawdownDuration)

		ruinLevel := cfg.InitialCapital * (1 - cfg.RuinThresholdPct/100)
		ruined := 0
		profitable := 0
		for i := 0; i < completed; i++ {
			if dist.MinEquity[i] < ruinLevel {
				ruined++
			}
			if dist.FinalEquity[i] > cfg.InitialCapital {
				profitable++
			}
		}
		s.RiskOfRuin = float64(ruined) / float64(completed)
		s.ProbabilityOfProfit = float64(profitable) / float64(completed)
	}

	return &Results{
		Config:        cfg,
		CompletedRuns: completed,
		Summary:       s,
		Runs:          dist,
		EquityBands:   equityBands(curves, len(original)),
	}
}

// valueAtRisk returns the return quantile at the given confidence level
// and the conditional mean of everything at or below it. A 95% confidence
// reads the 5th percentile of the return distribution.
func valueAtRisk(returns []float64, confidencePct float64) (v, cv float64) {
	sorted := sortedCopy(returns)
	v = percentile(sorted, 100-confidencePct)

	tailSum := 0.0
	tailCount := 0
	for _, r := range sorted {
		if r <= v {
			tailSum += r
			tailCount++
		}
	}
	if tailCount == 0 {
		return v, v
	}
	return v, tailSum / float64(tailCount)
}

// equityBands builds the trades x 5 percentile matrix across all completed
// equity curves. Nil when no run completed.
func equityBands(curves [][]float64, trades int) [][]float64 {
	if len(curves) == 0 {
		return nil
	}

	bands := make([][]float64, trades)
	column := make([]float64, len(curves))
	for j := 0; j < trades; j++ {
		for i, curve := range curves {
			column[i] = curve[j]
		}
		sort.Float64s(column)

		row := make([]float64, len(EquityBandPercentiles))
		for k, p := range EquityBandPercentiles {
			row[k] = percentile(column, p)
		}
		bands[j] = row
	}
	return bands
}

// percentile computes the pth percentile of sorted values with linear
// interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	index := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func sortedCopy(values []float64) []float64 {
	c := make([]float64, len(values))
	copy(c, values)
	sort.Float64s(c)
	return c
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// finiteMean averages only the finite entries of a ratio-metric
// distribution. When every entry is infinite the mean itself is reported
// as +Inf (undefined-but-favorable); with no entries at all it is 0.
// NaN entries are excluded so one degenerate run cannot poison the mean.
func finiteMean(values []float64) float64 {
	sum := 0.0
	count := 0
	sawPosInf := false
	for _, v := range values {
		if math.IsInf(v, 1) {
			sawPosInf = true
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, -1) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		if sawPosInf {
			return math.Inf(1)
		}
		return 0
	}
	return sum / float64(count)
}

func meanInt(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func maxInt(values []int) int {
	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}

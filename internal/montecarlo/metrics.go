package montecarlo

import "math"

// runMetrics holds the scalar outputs of one simulated run.
//
// Ratio metrics (Sortino, Calmar, recovery factor, profit factor) may be
// +Inf when their denominator vanishes while the numerator is favorable.
// They are never NaN.
type runMetrics struct {
	MaxDrawdown float64
	FinalEquity float64
	MinEquity   float64
	CAGR        float64
	Sharpe      float64
	Sortino     float64
	Calmar      float64

	MaxWinStreak  int
	MaxLossStreak int

	RecoveryFactor float64
	ProfitFactor   float64

	MeanDrawdownDuration float64
	MaxDrawdownDuration  int
}

// extractRunMetrics computes all per-run metrics from one completed equity
// curve and its underlying sampled returns.
func extractRunMetrics(equity, returns []float64, initialCapital float64) runMetrics {
	var m runMetrics

	m.FinalEquity = equity[len(equity)-1]
	m.MinEquity, m.MaxDrawdown = minEquityAndMaxDrawdown(equity)
	m.MeanDrawdownDuration, m.MaxDrawdownDuration = drawdownDurations(equity)

	years := float64(len(returns)) / TradingPeriodsPerYear
	m.CAGR = cagr(m.FinalEquity, initialCapital, years)

	mean, std := meanStd(returns)
	m.Sharpe = sharpe(mean, std)
	m.Sortino = sortino(returns, mean)

	m.Calmar = ratioOrSentinel(m.CAGR, m.MaxDrawdown)
	m.RecoveryFactor = ratioOrSentinel(m.FinalEquity-initialCapital, m.MaxDrawdown*initialCapital)

	m.ProfitFactor = profitFactor(returns)
	m.MaxWinStreak, m.MaxLossStreak = streaks(returns)

	return m
}

// minEquityAndMaxDrawdown walks the curve once, tracking the running peak.
func minEquityAndMaxDrawdown(equity []float64) (minEq, maxDD float64) {
	minEq = equity[0]
	peak := equity[0]
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		if e < minEq {
			minEq = e
		}
		if peak > 0 {
			dd := (peak - e) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return minEq, maxDD
}

// drawdownDurations measures contiguous stretches where equity sits below
// its running peak, returning the mean and the longest stretch in trades.
// Both are 0 when equity never dips below its peak.
func drawdownDurations(equity []float64) (mean float64, max int) {
	peak := equity[0]
	current := 0
	total := 0
	count := 0

	flush := func() {
		if current == 0 {
			return
		}
		total += current
		count++
		if current > max {
			max = current
		}
		current = 0
	}

	for _, e := range equity {
		if e > peak {
			peak = e
		}
		if e < peak {
			current++
		} else {
			flush()
		}
	}
	flush()

	if count > 0 {
		mean = float64(total) / float64(count)
	}
	return mean, max
}

// cagr annualizes the run's total growth. An aggressive sizing fraction
// can push compounded equity to zero or below; math.Pow on a negative
// base would yield NaN, so a wiped-out run reports -1 (total loss).
func cagr(finalEquity, initialCapital, years float64) float64 {
	if years <= 0 {
		return 0
	}
	if finalEquity <= 0 {
		return -1
	}
	return math.Pow(finalEquity/initialCapital, 1/years) - 1
}

func sharpe(mean, std float64) float64 {
	if std <= 0 {
		return 0
	}
	return mean / std * math.Sqrt(TradingPeriodsPerYear)
}

// sortino annualizes mean return over the downside deviation, i.e. the
// standard deviation of the losing returns only. With no losers (or zero
// downside deviation) the ratio is undefined: +Inf when the mean return is
// favorable, 0 otherwise.
func sortino(returns []float64, mean float64) float64 {
	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	if len(downside) > 0 {
		_, downsideStd := meanStd(downside)
		if downsideStd > 0 {
			return mean / downsideStd * math.Sqrt(TradingPeriodsPerYear)
		}
	}

	if mean > 0 {
		return math.Inf(1)
	}
	return 0
}

// ratioOrSentinel resolves num/denom with the shared edge-case policy for
// Calmar and recovery factor: +Inf for profit over a zero denominator,
// 0 otherwise. A NaN numerator resolves to 0 so the never-NaN guarantee
// holds even if an upstream metric degenerates.
func ratioOrSentinel(num, denom float64) float64 {
	if math.IsNaN(num) {
		return 0
	}
	if denom > 0 {
		return num / denom
	}
	if num > 0 {
		return math.Inf(1)
	}
	return 0
}

func profitFactor(returns []float64) float64 {
	grossProfit := 0.0
	grossLoss := 0.0
	for _, r := range returns {
		if r > 0 {
			grossProfit += r
		} else if r < 0 {
			grossLoss += math.Abs(r)
		}
	}

	if grossLoss == 0 {
		if grossProfit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossProfit / grossLoss
}

// streaks run-length encodes the return signs and reports the longest win
// and loss runs. Zero returns break both kinds of streak.
func streaks(returns []float64) (maxWin, maxLoss int) {
	winRun := 0
	lossRun := 0
	for _, r := range returns {
		switch {
		case r > 0:
			winRun++
			lossRun = 0
		case r < 0:
			lossRun++
			winRun = 0
		default:
			winRun = 0
			lossRun = 0
		}
		if winRun > maxWin {
			maxWin = winRun
		}
		if lossRun > maxLoss {
			maxLoss = lossRun
		}
	}
	return maxWin, maxLoss
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}

	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return mean, math.Sqrt(variance)
}

package montecarlo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedReturns() []float64 {
	return []float64{0.02, -0.01, 0.03, -0.02, 0.01, 0.015, -0.005, 0.025, -0.015, 0.01, 0.02, -0.01}
}

// TestEngineRun_Completes tests the happy path: full loop, correct shapes,
// terminal state
func TestEngineRun_Completes(t *testing.T) {
	cfg := validConfig()
	e := NewEngine()

	res, err := e.Run(mixedReturns(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, e.State())
	assert.False(t, res.Cancelled)
	assert.Equal(t, cfg.Simulations, res.CompletedRuns)

	assert.Len(t, res.Runs.MaxDrawdown, res.CompletedRuns)
	assert.Len(t, res.Runs.FinalEquity, res.CompletedRuns)
	assert.Len(t, res.Runs.CAGR, res.CompletedRuns)
	assert.Len(t, res.Runs.Sharpe, res.CompletedRuns)
	assert.Len(t, res.Runs.Sortino, res.CompletedRuns)
	assert.Len(t, res.Runs.Calmar, res.CompletedRuns)
	assert.Len(t, res.Runs.ProfitFactor, res.CompletedRuns)
	assert.Len(t, res.Runs.RecoveryFactor, res.CompletedRuns)
	assert.Len(t, res.Runs.MaxWinStreak, res.CompletedRuns)
	assert.Len(t, res.Runs.MaxLossStreak, res.CompletedRuns)

	// Band matrix: one row per trade, one column per band percentile.
	require.Len(t, res.EquityBands, len(mixedReturns()))
	for _, row := range res.EquityBands {
		require.Len(t, row, len(EquityBandPercentiles))
	}
}

// TestEngineRun_PreconditionErrors tests the run-time precondition class
func TestEngineRun_PreconditionErrors(t *testing.T) {
	cfg := validConfig()

	t.Run("empty returns", func(t *testing.T) {
		_, err := NewEngine().Run(nil, cfg, nil)
		assert.ErrorContains(t, err, "empty")
	})

	t.Run("too few returns", func(t *testing.T) {
		_, err := NewEngine().Run([]float64{0.01, 0.02, 0.03}, cfg, nil)
		assert.ErrorContains(t, err, "at least 10")
	})

	t.Run("non-finite return", func(t *testing.T) {
		returns := mixedReturns()
		returns[4] = math.NaN()
		_, err := NewEngine().Run(returns, cfg, nil)
		assert.ErrorContains(t, err, "not finite")
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := validConfig()
		bad.Simulations = 99
		_, err := NewEngine().Run(mixedReturns(), bad, nil)
		assert.ErrorContains(t, err, "simulation count")
	})
}

// TestEngineRun_SingleUse tests that a completed engine cannot run again
func TestEngineRun_SingleUse(t *testing.T) {
	cfg := validConfig()
	e := NewEngine()

	_, err := e.Run(mixedReturns(), cfg, nil)
	require.NoError(t, err)

	_, err = e.Run(mixedReturns(), cfg, nil)
	assert.ErrorContains(t, err, "fresh engine")
}

// TestEngineRun_ProgressCadence tests the every-100-iterations callback plus
// the final call
func TestEngineRun_ProgressCadence(t *testing.T) {
	cfg := validConfig()
	cfg.Simulations = 250

	var calls [][2]int
	progress := func(completed, total int) {
		calls = append(calls, [2]int{completed, total})
	}

	_, err := NewEngine().Run(mixedReturns(), cfg, progress)
	require.NoError(t, err)

	require.NotEmpty(t, calls)
	assert.Contains(t, calls, [2]int{100, 250})
	assert.Contains(t, calls, [2]int{200, 250})
	assert.Equal(t, [2]int{250, 250}, calls[len(calls)-1])
}

// TestEngineRun_CancelStopsLoop tests that cancellation stops the loop
// within a bounded number of further iterations and the arrays are
// truncated to the completed count
func TestEngineRun_CancelStopsLoop(t *testing.T) {
	cfg := validConfig()
	cfg.Simulations = 50000

	e := NewEngine()
	progress := func(completed, total int) {
		if completed >= 200 {
			e.Cancel()
		}
	}

	res, err := e.Run(mixedReturns(), cfg, progress)
	require.NoError(t, err)

	assert.True(t, res.Cancelled)
	assert.Equal(t, StateCancelled, e.State())
	assert.GreaterOrEqual(t, res.CompletedRuns, 200)
	assert.Less(t, res.CompletedRuns, 500, "cancel must not run anywhere near the configured total")

	// Truncation contract: no zero-filled tail slots survive.
	assert.Len(t, res.Runs.MaxDrawdown, res.CompletedRuns)
	assert.Len(t, res.Runs.FinalEquity, res.CompletedRuns)
	assert.Len(t, res.Runs.MaxDrawdownDuration, res.CompletedRuns)
	for _, eq := range res.Runs.FinalEquity {
		assert.NotZero(t, eq)
	}
}

// TestEngineRun_CancelBeforeStart tests cancelling before any iteration
func TestEngineRun_CancelBeforeStart(t *testing.T) {
	cfg := validConfig()
	e := NewEngine()
	e.Cancel()

	var called bool
	res, err := e.Run(mixedReturns(), cfg, func(completed, total int) { called = true })
	require.NoError(t, err)

	assert.True(t, res.Cancelled)
	assert.Equal(t, 0, res.CompletedRuns)
	assert.Empty(t, res.Runs.MaxDrawdown)
	assert.Nil(t, res.EquityBands)
	assert.False(t, called, "no progress callback on a cancelled run")
}

// TestEngineRun_AllWinners tests the property battery for a strictly
// positive return history
func TestEngineRun_AllWinners(t *testing.T) {
	returns := []float64{0.01, 0.02, 0.015, 0.03, 0.005, 0.025, 0.01, 0.02, 0.015, 0.01}
	cfg := validConfig()

	res, err := NewEngine().Run(returns, cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.Summary.ProbabilityOfProfit)
	assert.Equal(t, 0.0, res.Summary.RiskOfRuin)
	assert.Equal(t, 0.0, res.Summary.MeanMaxLossStreak)

	for i := 0; i < res.CompletedRuns; i++ {
		assert.Zero(t, res.Runs.MaxLossStreak[i])
		assert.True(t, math.IsInf(res.Runs.ProfitFactor[i], 1))
		assert.Greater(t, res.Runs.FinalEquity[i], cfg.InitialCapital)
	}
}

// TestEngineRun_AllLosers tests the mirrored property battery
func TestEngineRun_AllLosers(t *testing.T) {
	returns := []float64{-0.01, -0.02, -0.015, -0.03, -0.005, -0.025, -0.01, -0.02, -0.015, -0.01}
	cfg := validConfig()

	res, err := NewEngine().Run(returns, cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Summary.ProbabilityOfProfit)
	assert.Equal(t, 0.0, res.Summary.MeanMaxWinStreak)

	for i := 0; i < res.CompletedRuns; i++ {
		assert.Zero(t, res.Runs.MaxWinStreak[i])
		assert.Less(t, res.Runs.FinalEquity[i], cfg.InitialCapital)
	}
}

// TestEngineRun_SubTotalLossReturn tests that a trade losing more than
// 100% under full-fraction compounding flips equity negative without
// leaking NaN into the per-run distributions or the summary
func TestEngineRun_SubTotalLossReturn(t *testing.T) {
	returns := []float64{0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, -2.5}

	cfg := validConfig()
	cfg.Sizing = SizingKellyFraction
	cfg.KellyFractionPct = 100

	res, err := NewEngine().Run(returns, cfg, nil)
	require.NoError(t, err)

	for i := 0; i < res.CompletedRuns; i++ {
		assert.False(t, math.IsNaN(res.Runs.CAGR[i]), "CAGR run %d", i)
		assert.False(t, math.IsNaN(res.Runs.Calmar[i]), "Calmar run %d", i)
		assert.False(t, math.IsNaN(res.Runs.RecoveryFactor[i]), "recovery factor run %d", i)
		if res.Runs.FinalEquity[i] <= 0 {
			assert.Equal(t, -1.0, res.Runs.CAGR[i], "wiped run %d reports total loss", i)
		}
	}

	assert.False(t, math.IsNaN(res.Summary.MeanCAGR))
	assert.False(t, math.IsNaN(res.Summary.MedianCAGR))
	assert.False(t, math.IsNaN(res.Summary.MeanCalmar))
	assert.False(t, math.IsNaN(res.Summary.MeanRecoveryFactor))
}

// TestEngineRun_ProbabilityBounds tests that ruin and profit probabilities
// stay within [0, 1]
func TestEngineRun_ProbabilityBounds(t *testing.T) {
	for _, sampling := range []SamplingMode{SamplingResample, SamplingReshuffle} {
		cfg := validConfig()
		cfg.Sampling = sampling

		res, err := NewEngine().Run(mixedReturns(), cfg, nil)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, res.Summary.RiskOfRuin, 0.0)
		assert.LessOrEqual(t, res.Summary.RiskOfRuin, 1.0)
		assert.GreaterOrEqual(t, res.Summary.ProbabilityOfProfit, 0.0)
		assert.LessOrEqual(t, res.Summary.ProbabilityOfProfit, 1.0)
	}
}

// TestEngineRun_ReshuffleInvariantMetrics tests that permutation keeps
// whole-path metrics that are order-independent identical across runs
func TestEngineRun_ReshuffleInvariantMetrics(t *testing.T) {
	cfg := validConfig()
	cfg.Sampling = SamplingReshuffle
	cfg.Sizing = SizingKellyFraction

	res, err := NewEngine().Run(mixedReturns(), cfg, nil)
	require.NoError(t, err)

	// Compounding is commutative, so every permutation ends at the same
	// final equity and profit factor.
	first := res.Runs.FinalEquity[0]
	firstPF := res.Runs.ProfitFactor[0]
	for i := 1; i < res.CompletedRuns; i++ {
		assert.InDelta(t, first, res.Runs.FinalEquity[i], 1e-6)
		assert.InDelta(t, firstPF, res.Runs.ProfitFactor[i], 1e-9)
	}
}

// TestEngineRun_SeedReproducibility tests that a fixed seed reproduces the
// full result distributions
func TestEngineRun_SeedReproducibility(t *testing.T) {
	cfg := validConfig()
	cfg.Seed = 777

	resA, err := NewEngine().Run(mixedReturns(), cfg, nil)
	require.NoError(t, err)
	resB, err := NewEngine().Run(mixedReturns(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, resA.Runs.FinalEquity, resB.Runs.FinalEquity)
	assert.Equal(t, resA.Runs.MaxDrawdown, resB.Runs.MaxDrawdown)
	assert.Equal(t, resA.Summary, resB.Summary)
}

// TestEngineRun_EquityAlwaysFinite tests the finiteness invariant on the
// band matrix and equity distributions
func TestEngineRun_EquityAlwaysFinite(t *testing.T) {
	cfg := validConfig()
	cfg.Sizing = SizingCustomPercent
	cfg.CustomPositionPct = 100

	res, err := NewEngine().Run(mixedReturns(), cfg, nil)
	require.NoError(t, err)

	for _, eq := range res.Runs.FinalEquity {
		assert.False(t, math.IsNaN(eq) || math.IsInf(eq, 0))
	}
	for _, row := range res.EquityBands {
		for _, v := range row {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

func BenchmarkEngineRun(b *testing.B) {
	returns := make([]float64, 250)
	for i := range returns {
		returns[i] = float64(i%9-4) * 0.005
	}
	cfg := validConfig()
	cfg.Simulations = 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NewEngine().Run(returns, cfg, nil); err != nil {
			b.Fatal(err)
		}
	}
}

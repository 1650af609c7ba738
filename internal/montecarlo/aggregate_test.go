package montecarlo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPercentile tests linear interpolation between closest ranks
func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	assert.Equal(t, 10.0, percentile(sorted, 0))
	assert.Equal(t, 40.0, percentile(sorted, 100))
	assert.InDelta(t, 25.0, percentile(sorted, 50), 1e-9)
	assert.InDelta(t, 17.5, percentile(sorted, 25), 1e-9)
	assert.Equal(t, 0.0, percentile(nil, 50))
}

// TestPercentile_SingleValue tests the degenerate one-element case
func TestPercentile_SingleValue(t *testing.T) {
	sorted := []float64{42}
	for _, p := range []float64{0, 5, 50, 95, 100} {
		assert.Equal(t, 42.0, percentile(sorted, p))
	}
}

// TestValueAtRisk tests the VaR quantile and the conditional tail mean
func TestValueAtRisk(t *testing.T) {
	// 20 returns, evenly spread from -0.10 to +0.09.
	returns := make([]float64, 20)
	for i := range returns {
		returns[i] = -0.10 + float64(i)*0.01
	}

	v, cv := valueAtRisk(returns, 95)

	// 5th percentile of 20 sorted values sits just inside the loss tail.
	assert.Less(t, v, 0.0)
	assert.LessOrEqual(t, cv, v, "CVaR is the mean of the tail at or below VaR")
}

// TestValueAtRisk_UniformReturns tests the CVaR fallback when the tail
// mean equals the quantile itself
func TestValueAtRisk_UniformReturns(t *testing.T) {
	returns := []float64{0.01, 0.01, 0.01, 0.01}
	v, cv := valueAtRisk(returns, 95)

	assert.Equal(t, 0.01, v)
	assert.Equal(t, v, cv)
}

// TestFiniteMean tests that infinite ratio entries never poison the mean
func TestFiniteMean(t *testing.T) {
	inf := math.Inf(1)

	assert.InDelta(t, 2.0, finiteMean([]float64{1, 3, inf}), 1e-9)
	assert.InDelta(t, 2.0, finiteMean([]float64{1, 3}), 1e-9)
	assert.True(t, math.IsInf(finiteMean([]float64{inf, inf}), 1), "all-infinite stays undefined-but-favorable")
	assert.Equal(t, 0.0, finiteMean(nil))

	// NaN and -Inf entries are excluded rather than propagated.
	assert.InDelta(t, 2.0, finiteMean([]float64{1, 3, math.NaN()}), 1e-9)
	assert.InDelta(t, 2.0, finiteMean([]float64{1, 3, math.Inf(-1)}), 1e-9)
	assert.Equal(t, 0.0, finiteMean([]float64{math.NaN()}))
}

// TestEquityBands_Shape tests the trades x percentile matrix shape and
// monotonicity of each row
func TestEquityBands_Shape(t *testing.T) {
	curves := [][]float64{
		{100, 110, 120},
		{90, 95, 130},
		{105, 100, 110},
		{95, 115, 125},
	}

	bands := equityBands(curves, 3)

	assert.Len(t, bands, 3)
	for _, row := range bands {
		assert.Len(t, row, len(EquityBandPercentiles))
		for k := 1; k < len(row); k++ {
			assert.GreaterOrEqual(t, row[k], row[k-1], "band percentiles must be non-decreasing")
		}
	}
}

// TestEquityBands_Empty tests that no completed curves yields no bands
func TestEquityBands_Empty(t *testing.T) {
	assert.Nil(t, equityBands(nil, 5))
}

// TestAggregate_EmptyCompleted tests aggregation after an immediate cancel
func TestAggregate_EmptyCompleted(t *testing.T) {
	cfg := validConfig()
	dist := newRunDistributions(0)

	res := aggregate(mixedReturns(), cfg, dist, nil, 0)

	assert.Equal(t, 0, res.CompletedRuns)
	assert.Zero(t, res.Summary.RiskOfRuin)
	assert.Zero(t, res.Summary.ProbabilityOfProfit)
	// VaR/CVaR come from the original distribution and survive regardless.
	assert.NotZero(t, res.Summary.VaR)
}

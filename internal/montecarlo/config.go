package montecarlo

import "fmt"

// SamplingMode selects how each simulated path is drawn from the
// historical trade returns.
type SamplingMode string

const (
	// SamplingResample draws with replacement (bootstrap).
	SamplingResample SamplingMode = "resample"
	// SamplingReshuffle permutes the original returns without replacement.
	SamplingReshuffle SamplingMode = "reshuffle"
)

// SizingMode selects how a sampled return is converted into an equity change.
type SizingMode string

const (
	SizingFlatStake     SizingMode = "flat_stake"
	SizingKellyFraction SizingMode = "kelly"
	SizingCustomPercent SizingMode = "custom"
)

const (
	MinSimulations = 100
	MaxSimulations = 50000

	// MinTradeCount is the smallest trade history worth simulating.
	MinTradeCount = 10

	// TradingPeriodsPerYear assumes one trade per trading day for
	// annualization of CAGR, Sharpe and Sortino.
	TradingPeriodsPerYear = 252
)

// Config holds all parameters for one simulation run. Validate must pass
// before the config is handed to an Engine.
type Config struct {
	Simulations      int     `json:"simulations"`
	InitialCapital   float64 `json:"initial_capital"`
	RuinThresholdPct float64 `json:"ruin_threshold_pct"`
	VaRConfidencePct float64 `json:"var_confidence_pct"`

	Sampling SamplingMode `json:"sampling"`
	Sizing   SizingMode   `json:"sizing"`

	// Sizing parameters; only the one matching Sizing is consulted.
	FlatStake         float64 `json:"flat_stake,omitempty"`
	KellyFractionPct  float64 `json:"kelly_fraction_pct,omitempty"`
	CustomPositionPct float64 `json:"custom_position_pct,omitempty"`

	// Seed makes a run reproducible when non-zero. Zero means seed from
	// the wall clock.
	Seed int64 `json:"seed,omitempty"`
}

// Validate performs range validation on all configuration parameters.
func (c *Config) Validate() error {
	if c.Simulations < MinSimulations || c.Simulations > MaxSimulations {
		return fmt.Errorf("simulation count must be between %d and %d, got: %d", MinSimulations, MaxSimulations, c.Simulations)
	}

	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive, got: %.2f", c.InitialCapital)
	}

	if c.RuinThresholdPct <= 0 || c.RuinThresholdPct >= 100 {
		return fmt.Errorf("ruin threshold must be between 0 and 100 (exclusive), got: %.2f", c.RuinThresholdPct)
	}

	if c.VaRConfidencePct <= 0 || c.VaRConfidencePct >= 100 {
		return fmt.Errorf("VaR confidence must be between 0 and 100 (exclusive), got: %.2f", c.VaRConfidencePct)
	}

	switch c.Sampling {
	case SamplingResample, SamplingReshuffle:
	default:
		return fmt.Errorf("unknown sampling mode: %q (use %q or %q)", c.Sampling, SamplingResample, SamplingReshuffle)
	}

	switch c.Sizing {
	case SizingFlatStake:
		if c.FlatStake <= 0 {
			return fmt.Errorf("flat stake must be positive, got: %.2f", c.FlatStake)
		}
	case SizingKellyFraction:
		if c.KellyFractionPct <= 0 || c.KellyFractionPct > 100 {
			return fmt.Errorf("kelly fraction must be within (0, 100], got: %.2f", c.KellyFractionPct)
		}
	case SizingCustomPercent:
		if c.CustomPositionPct <= 0 || c.CustomPositionPct > 100 {
			return fmt.Errorf("custom position percent must be within (0, 100], got: %.2f", c.CustomPositionPct)
		}
	default:
		return fmt.Errorf("unknown sizing mode: %q (use %q, %q or %q)", c.Sizing, SizingFlatStake, SizingKellyFraction, SizingCustomPercent)
	}

	return nil
}

package montecarlo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Simulations:      200,
		InitialCapital:   100000,
		RuinThresholdPct: 50,
		VaRConfidencePct: 95,
		Sampling:         SamplingResample,
		Sizing:           SizingKellyFraction,
		KellyFractionPct: 25,
		Seed:             42,
	}
}

// TestConfigValidate_Valid tests that a fully populated config passes
func TestConfigValidate_Valid(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

// TestConfigValidate_SimulationBounds tests boundary inclusivity of the simulation count
func TestConfigValidate_SimulationBounds(t *testing.T) {
	tests := []struct {
		name        string
		simulations int
		wantErr     bool
	}{
		{"below minimum", 99, true},
		{"at minimum", 100, false},
		{"at maximum", 50000, false},
		{"above maximum", 50001, true},
		{"zero", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Simulations = tt.simulations

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "simulation count")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestConfigValidate_InitialCapital tests that starting capital must be positive
func TestConfigValidate_InitialCapital(t *testing.T) {
	cfg := validConfig()
	cfg.InitialCapital = 0
	assert.ErrorContains(t, cfg.Validate(), "initial capital")

	cfg.InitialCapital = -100
	assert.ErrorContains(t, cfg.Validate(), "initial capital")
}

// TestConfigValidate_RuinThreshold tests the exclusive (0, 100) range
func TestConfigValidate_RuinThreshold(t *testing.T) {
	for _, bad := range []float64{0, 100, -1, 150} {
		cfg := validConfig()
		cfg.RuinThresholdPct = bad
		assert.ErrorContains(t, cfg.Validate(), "ruin threshold")
	}

	cfg := validConfig()
	cfg.RuinThresholdPct = 0.5
	assert.NoError(t, cfg.Validate())
}

// TestConfigValidate_VaRConfidence tests the exclusive (0, 100) range
func TestConfigValidate_VaRConfidence(t *testing.T) {
	for _, bad := range []float64{0, 100, -5} {
		cfg := validConfig()
		cfg.VaRConfidencePct = bad
		assert.ErrorContains(t, cfg.Validate(), "VaR confidence")
	}
}

// TestConfigValidate_SamplingMode tests rejection of unknown sampling tags
func TestConfigValidate_SamplingMode(t *testing.T) {
	cfg := validConfig()
	cfg.Sampling = "jackknife"
	assert.ErrorContains(t, cfg.Validate(), "sampling mode")

	cfg.Sampling = SamplingReshuffle
	assert.NoError(t, cfg.Validate())
}

// TestConfigValidate_SizingParameters tests per-mode parameter validation
func TestConfigValidate_SizingParameters(t *testing.T) {
	t.Run("flat stake must be positive", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sizing = SizingFlatStake
		cfg.FlatStake = 0
		assert.ErrorContains(t, cfg.Validate(), "flat stake")

		cfg.FlatStake = 10000
		assert.NoError(t, cfg.Validate())
	})

	t.Run("kelly fraction within (0, 100]", func(t *testing.T) {
		for _, bad := range []float64{0, -10, 100.5} {
			cfg := validConfig()
			cfg.KellyFractionPct = bad
			assert.ErrorContains(t, cfg.Validate(), "kelly fraction")
		}

		cfg := validConfig()
		cfg.KellyFractionPct = 100
		assert.NoError(t, cfg.Validate())
	})

	t.Run("custom percent within (0, 100]", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sizing = SizingCustomPercent
		cfg.CustomPositionPct = 0
		assert.ErrorContains(t, cfg.Validate(), "custom position")

		cfg.CustomPositionPct = 100
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown sizing mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sizing = "martingale"
		assert.ErrorContains(t, cfg.Validate(), "sizing mode")
	})
}

// TestConfigValidate_IgnoresOtherModeParams tests that only the active
// sizing mode's parameter is validated
func TestConfigValidate_IgnoresOtherModeParams(t *testing.T) {
	cfg := validConfig()
	// Kelly mode: flat stake and custom percent are irrelevant and may be zero.
	cfg.FlatStake = 0
	cfg.CustomPositionPct = 0
	assert.NoError(t, cfg.Validate())
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quantdesk/strategy-sim/internal/montecarlo"
	"github.com/quantdesk/strategy-sim/internal/tradelog"
)

// fileConfig is the JSON shape of a -config file. Any field present
// overrides the built-in default; flags given explicitly on the command
// line win over both.
type fileConfig struct {
	DataFile string `json:"data_file,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	RawPnL   bool   `json:"raw_pnl,omitempty"`

	montecarlo.Config
}

// runConfig is everything main needs to execute one simulation.
type runConfig struct {
	DataFile string
	Extract  tradelog.ExtractOptions
	Sim      montecarlo.Config
}

func loadConfiguration(flags *SimFlags) (*runConfig, error) {
	rc := &runConfig{
		Sim: montecarlo.Config{
			Simulations:       *flags.Simulations,
			InitialCapital:    *flags.InitialCapital,
			RuinThresholdPct:  *flags.RuinThreshold,
			VaRConfidencePct:  *flags.VaRConfidence,
			Sampling:          parseSamplingMode(*flags.Sampling),
			Sizing:            parseSizingMode(*flags.Sizing),
			FlatStake:         *flags.FlatStake,
			KellyFractionPct:  *flags.KellyFraction,
			CustomPositionPct: *flags.CustomPercent,
			Seed:              *flags.Seed,
		},
	}

	if *flags.ConfigFile != "" {
		fc, err := readConfigFile(*flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		rc.DataFile = fc.DataFile
		rc.Extract.Symbol = fc.Symbol
		rc.Extract.RawOnly = fc.RawPnL
		if fc.From != "" {
			t, err := parseDate(fc.From)
			if err != nil {
				return nil, fmt.Errorf("config from: %w", err)
			}
			rc.Extract.From = t
		}
		if fc.To != "" {
			t, err := parseDate(fc.To)
			if err != nil {
				return nil, fmt.Errorf("config to: %w", err)
			}
			rc.Extract.To = t
		}
		mergeFileConfig(&rc.Sim, &fc.Config)
	}

	// Explicit flags override the config file.
	if *flags.DataFile != "" {
		rc.DataFile = *flags.DataFile
	}
	if *flags.Symbol != "" {
		rc.Extract.Symbol = *flags.Symbol
	}
	if *flags.RawPnL {
		rc.Extract.RawOnly = true
	}
	if *flags.From != "" {
		t, err := parseDate(*flags.From)
		if err != nil {
			return nil, fmt.Errorf("invalid -from: %w", err)
		}
		rc.Extract.From = t
	}
	if *flags.To != "" {
		t, err := parseDate(*flags.To)
		if err != nil {
			return nil, fmt.Errorf("invalid -to: %w", err)
		}
		rc.Extract.To = t
	}

	if rc.DataFile == "" {
		return nil, fmt.Errorf("no trade log file: set -data or data_file in the config")
	}

	if err := rc.Sim.Validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

func readConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	fc := &fileConfig{}
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return fc, nil
}

// mergeFileConfig copies the non-zero simulation fields of src over dst.
func mergeFileConfig(dst, src *montecarlo.Config) {
	if src.Simulations != 0 {
		dst.Simulations = src.Simulations
	}
	if src.InitialCapital != 0 {
		dst.InitialCapital = src.InitialCapital
	}
	if src.RuinThresholdPct != 0 {
		dst.RuinThresholdPct = src.RuinThresholdPct
	}
	if src.VaRConfidencePct != 0 {
		dst.VaRConfidencePct = src.VaRConfidencePct
	}
	if src.Sampling != "" {
		dst.Sampling = src.Sampling
	}
	if src.Sizing != "" {
		dst.Sizing = src.Sizing
	}
	if src.FlatStake != 0 {
		dst.FlatStake = src.FlatStake
	}
	if src.KellyFractionPct != 0 {
		dst.KellyFractionPct = src.KellyFractionPct
	}
	if src.CustomPositionPct != 0 {
		dst.CustomPositionPct = src.CustomPositionPct
	}
	if src.Seed != 0 {
		dst.Seed = src.Seed
	}
}

// parseSamplingMode maps CLI spellings onto the engine enum; unknown
// values pass through so Config.Validate reports them.
func parseSamplingMode(s string) montecarlo.SamplingMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "resample", "bootstrap":
		return montecarlo.SamplingResample
	case "reshuffle", "permutation", "shuffle":
		return montecarlo.SamplingReshuffle
	}
	return montecarlo.SamplingMode(s)
}

func parseSizingMode(s string) montecarlo.SizingMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat_stake", "flat", "flat-stake":
		return montecarlo.SizingFlatStake
	case "kelly", "kelly_fraction":
		return montecarlo.SizingKellyFraction
	case "custom", "custom_percent":
		return montecarlo.SizingCustomPercent
	}
	return montecarlo.SizingMode(s)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

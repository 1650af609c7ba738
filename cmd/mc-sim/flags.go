package main

import (
	"flag"
	"fmt"
	"strings"
)

// SimFlags holds all command line flags for the mc-sim command
type SimFlags struct {
	// Input
	ConfigFile *string
	DataFile   *string
	Symbol     *string
	From       *string
	To         *string
	RawPnL     *bool

	// Simulation parameters
	Simulations    *int
	InitialCapital *float64
	RuinThreshold  *float64
	VaRConfidence  *float64
	Sampling       *string
	Sizing         *string
	FlatStake      *float64
	KellyFraction  *float64
	CustomPercent  *float64
	Seed           *int64

	// Runtime options
	Timeout     *string
	MetricsPort *int
	EnvFile     *string
	Quiet       *bool

	// Output options
	OutputFormat *string
	OutputFile   *string
	ShowVersion  *bool
	ShowHelp     *bool
}

// NewSimFlags creates and registers all command line flags
func NewSimFlags() *SimFlags {
	return &SimFlags{
		ConfigFile: flag.String("config", "", "JSON configuration file"),
		DataFile:   flag.String("data", "", "Trade log file (.csv or .xlsx)"),
		Symbol:     flag.String("symbol", "", "Filter trades to one symbol"),
		From:       flag.String("from", "", "Keep trades exiting on/after this date (YYYY-MM-DD)"),
		To:         flag.String("to", "", "Keep trades exiting on/before this date (YYYY-MM-DD)"),
		RawPnL:     flag.Bool("raw-pnl", false, "Force the raw PnL column even when an adjusted one exists"),

		Simulations:    flag.Int("sims", DefaultSimulations, "Number of simulated paths"),
		InitialCapital: flag.Float64("capital", DefaultInitialCapital, "Starting capital"),
		RuinThreshold:  flag.Float64("ruin", DefaultRuinThreshold, "Ruin threshold in percent of starting capital"),
		VaRConfidence:  flag.Float64("var-confidence", DefaultVaRConfidence, "VaR confidence level in percent"),
		Sampling:       flag.String("sampling", "resample", "Sampling mode: resample or reshuffle"),
		Sizing:         flag.String("sizing", "kelly", "Position sizing: flat_stake, kelly or custom"),
		FlatStake:      flag.Float64("stake", DefaultFlatStake, "Stake per trade for flat_stake sizing"),
		KellyFraction:  flag.Float64("kelly", DefaultKellyFraction, "Fractional Kelly percent for kelly sizing"),
		CustomPercent:  flag.Float64("position", DefaultCustomPercent, "Position percent for custom sizing"),
		Seed:           flag.Int64("seed", 0, "Random seed (0 = non-deterministic)"),

		Timeout:     flag.String("timeout", "", "Cancel the run after this duration (e.g. 30s, 5m)"),
		MetricsPort: flag.Int("metrics-port", 0, "Expose Prometheus metrics on this port (0 = off)"),
		EnvFile:     flag.String("env", ".env", "Environment file"),
		Quiet:       flag.Bool("quiet", false, "Suppress the progress bar"),

		OutputFormat: flag.String("output", "console", "Output format: console, json, csv or excel"),
		OutputFile:   flag.String("output-file", "", "Output file path (json/csv/excel)"),
		ShowVersion:  flag.Bool("version", false, "Show version"),
		ShowHelp:     flag.Bool("help", false, "Show help"),
	}
}

// ValidateSimFlags performs flag-level validation before configuration is built
func ValidateSimFlags(flags *SimFlags) error {
	if *flags.ShowVersion || *flags.ShowHelp {
		return nil
	}

	if *flags.DataFile == "" && *flags.ConfigFile == "" {
		return fmt.Errorf("either -data or -config is required")
	}

	switch strings.ToLower(*flags.OutputFormat) {
	case "console", "json", "csv", "excel":
	default:
		return fmt.Errorf("unknown output format: %s (use console, json, csv or excel)", *flags.OutputFormat)
	}

	if *flags.OutputFormat != "console" && *flags.OutputFile == "" {
		return fmt.Errorf("-output-file is required for %s output", *flags.OutputFormat)
	}

	return nil
}

// PrintUsageExamples prints common invocations
func PrintUsageExamples() {
	fmt.Println("EXAMPLES:")
	fmt.Println("  mc-sim -data trades.csv -sims 5000")
	fmt.Println("  mc-sim -data trades.xlsx -symbol BTCUSDT -sizing flat_stake -stake 1000")
	fmt.Println("  mc-sim -data trades.csv -sampling reshuffle -seed 42 -output json -output-file results.json")
	fmt.Println("  mc-sim -config sim.json -output excel -output-file results.xlsx")
}

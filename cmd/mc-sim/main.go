package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/quantdesk/strategy-sim/internal/monitoring"
	"github.com/quantdesk/strategy-sim/internal/montecarlo"
	"github.com/quantdesk/strategy-sim/internal/tradelog"
	"github.com/quantdesk/strategy-sim/pkg/reporting"
)

const (
	AppName    = "MC Strategy Simulator"
	AppVersion = "1.2.0"

	// Default values
	DefaultSimulations    = 5000
	DefaultInitialCapital = 100000.0
	DefaultRuinThreshold  = 50.0
	DefaultVaRConfidence  = 95.0
	DefaultFlatStake      = 1000.0
	DefaultKellyFraction  = 25.0
	DefaultCustomPercent  = 10.0
)

func main() {
	flags := NewSimFlags()
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}
	if *flags.ShowHelp {
		printUsageHelp()
		return
	}

	if err := ValidateSimFlags(flags); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	printHeader()
	loadEnvironment(*flags.EnvFile)

	cfg, err := loadConfiguration(flags)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	if *flags.MetricsPort > 0 {
		monitoring.Serve(*flags.MetricsPort)
		fmt.Printf("📡 Prometheus metrics on :%d/metrics\n", *flags.MetricsPort)
	}

	returns, err := loadReturns(cfg)
	if err != nil {
		log.Fatalf("❌ Trade log error: %v", err)
	}
	fmt.Printf("📈 Simulating %d paths over %d trades (%s sampling, %s sizing)\n\n",
		cfg.Sim.Simulations, len(returns), cfg.Sim.Sampling, cfg.Sim.Sizing)

	res, duration, err := runSimulation(cfg, returns, *flags.Timeout, *flags.Quiet)
	if err != nil {
		log.Fatalf("❌ Simulation error: %v", err)
	}

	outcome := "completed"
	if res.Cancelled {
		outcome = "cancelled"
	}
	monitoring.RecordRun(outcome, duration)
	monitoring.AddIterations(res.CompletedRuns)
	fmt.Printf("\n⏱️  Finished %d runs in %s\n", res.CompletedRuns, duration.Round(time.Millisecond))

	if err := outputResults(res, *flags.OutputFormat, *flags.OutputFile); err != nil {
		log.Fatalf("❌ Output error: %v", err)
	}
}

func loadReturns(cfg *runConfig) ([]float64, error) {
	records, err := tradelog.Load(cfg.DataFile)
	if err != nil {
		return nil, err
	}
	fmt.Printf("✅ Loaded %d trade records from %s\n", len(records), cfg.DataFile)

	return tradelog.Returns(records, cfg.Extract)
}

// runSimulation executes the engine on a worker goroutine so the main
// goroutine stays free to observe Ctrl-C and the optional timeout.
func runSimulation(cfg *runConfig, returns []float64, timeout string, quiet bool) (*montecarlo.Results, time.Duration, error) {
	var bar *progressbar.ProgressBar
	if !quiet {
		bar = initProgressBar(cfg.Sim.Simulations)
	}

	progress := func(completed, total int) {
		monitoring.SetProgress(completed, total)
		if bar != nil {
			_ = bar.Set(completed)
		}
	}

	var timeoutCh <-chan time.Time
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid -timeout: %w", err)
		}
		timeoutCh = time.After(d)
	}

	engine := montecarlo.NewEngine()

	type outcome struct {
		res *montecarlo.Results
		err error
	}
	done := make(chan outcome, 1)

	start := time.Now()
	go func() {
		res, err := engine.Run(returns, cfg.Sim, progress)
		done <- outcome{res, err}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var out outcome
	select {
	case out = <-done:
	case <-sigCh:
		fmt.Println("\n⚠️  Cancellation requested, stopping at the next iteration...")
		engine.Cancel()
		out = <-done
	case <-timeoutCh:
		fmt.Println("\n⚠️  Timeout reached, stopping at the next iteration...")
		engine.Cancel()
		out = <-done
	}

	return out.res, time.Since(start), out.err
}

func outputResults(res *montecarlo.Results, format, outputFile string) error {
	// The console summary always prints; file formats come on top.
	reporting.NewConsoleReporter().OutputResults(res)

	switch strings.ToLower(format) {
	case "json":
		fmt.Printf("💾 Writing JSON results to %s\n", outputFile)
		return reporting.WriteResultsJSON(res, outputFile)
	case "csv":
		fmt.Printf("💾 Writing CSV distributions to %s\n", outputFile)
		if err := reporting.WriteDistributionsCSV(res, outputFile); err != nil {
			return err
		}
		bandsFile := strings.TrimSuffix(outputFile, ".csv") + "_bands.csv"
		return reporting.WriteEquityBandsCSV(res, bandsFile)
	case "excel":
		fmt.Printf("💾 Writing Excel workbook to %s\n", outputFile)
		return reporting.WriteResultsXLSX(res, outputFile)
	}
	return nil
}

func initProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Simulating..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func printHeader() {
	fmt.Printf("🎲 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func printUsageHelp() {
	fmt.Printf("%s v%s - Monte Carlo analysis of historical trade logs\n\n", AppName, AppVersion)
	fmt.Printf("USAGE:\n  mc-sim [OPTIONS]\n\n")
	PrintUsageExamples()
	fmt.Println()
	flag.PrintDefaults()
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v)", envFile, err)
	}
}

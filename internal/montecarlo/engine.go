// Package montecarlo resamples a historical trade-return series into
// thousands of alternative equity trajectories and reduces them to
// risk/return distributions and summary statistics.
package montecarlo

import (
	"fmt"
	"math"
	"sync/atomic"
)

// State is the lifecycle of one Engine. An engine runs exactly once.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ProgressFunc receives the number of completed iterations out of the
// configured total. It runs synchronously on the simulation goroutine and
// must return quickly.
type ProgressFunc func(completed, total int)

// progressInterval is how many iterations pass between progress callbacks.
const progressInterval = 100

// Engine drives the simulation loop. The loop itself is single-threaded;
// only Cancel may be called from another goroutine while Run executes.
type Engine struct {
	state     atomic.Int32
	cancelled atomic.Bool
}

func NewEngine() *Engine {
	return &Engine{}
}

// Cancel requests the running loop to stop. It is advisory: the flag is
// checked once per iteration boundary, so at most one extra iteration may
// execute after the request. Safe to call from any goroutine.
func (e *Engine) Cancel() {
	e.cancelled.Store(true)
}

// State reports the engine lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Run executes the full simulation synchronously on the calling goroutine
// and returns the collected results. Validation failures and precondition
// violations are the only errors; numeric edge cases inside the loop
// resolve to the documented 0/+Inf sentinels instead.
func (e *Engine) Run(returns []float64, cfg Config, progress ProgressFunc) (*Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if len(returns) == 0 {
		return nil, fmt.Errorf("trade return array is empty")
	}
	if len(returns) < MinTradeCount {
		return nil, fmt.Errorf("need at least %d trade returns, got: %d", MinTradeCount, len(returns))
	}
	for i, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("trade return at index %d is not finite", i)
		}
	}

	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, fmt.Errorf("engine is %s, create a fresh engine per run", e.State())
	}

	n := len(returns)
	total := cfg.Simulations

	smp := newSampler(cfg.Sampling, cfg.Seed)
	dist := newRunDistributions(total)
	curves := make([][]float64, 0, total)

	// The sampled path buffer is reused every iteration; equity curves are
	// retained for the per-trade percentile bands.
	path := make([]float64, n)

	completed := 0
	for i := 0; i < total; i++ {
		if e.cancelled.Load() {
			break
		}

		smp.samplePath(path, returns)

		curve := make([]float64, n)
		buildEquityCurve(curve, path, &cfg)
		curves = append(curves, curve)

		dist.set(i, extractRunMetrics(curve, path, cfg.InitialCapital))
		completed++

		if progress != nil && completed%progressInterval == 0 {
			progress(completed, total)
		}
	}

	wasCancelled := e.cancelled.Load()
	if progress != nil && !wasCancelled {
		progress(completed, total)
	}

	// A cancelled loop leaves zero-filled tail slots; truncate before
	// aggregation so they cannot show up as spurious runs downstream.
	dist.truncate(completed)

	results := aggregate(returns, cfg, dist, curves, completed)
	results.Cancelled = wasCancelled

	if wasCancelled {
		e.state.Store(int32(StateCancelled))
	} else {
		e.state.Store(int32(StateCompleted))
	}

	return results, nil
}

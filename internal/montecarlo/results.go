package montecarlo

// EquityBandPercentiles are the per-trade-index percentiles reported in the
// columns of Results.EquityBands, in order.
var EquityBandPercentiles = [5]float64{5, 25, 50, 75, 95}

// RunDistributions holds the full per-run metric arrays. Every slice has
// exactly one entry per completed run.
type RunDistributions struct {
	MaxDrawdown          []float64 `json:"max_drawdown"`
	FinalEquity          []float64 `json:"final_equity"`
	MinEquity            []float64 `json:"min_equity"`
	CAGR                 []float64 `json:"cagr"`
	Sharpe               []float64 `json:"sharpe"`
	Sortino              []float64 `json:"sortino"`
	Calmar               []float64 `json:"calmar"`
	MaxWinStreak         []int     `json:"max_win_streak"`
	MaxLossStreak        []int     `json:"max_loss_streak"`
	RecoveryFactor       []float64 `json:"recovery_factor"`
	ProfitFactor         []float64 `json:"profit_factor"`
	MeanDrawdownDuration []float64 `json:"mean_drawdown_duration"`
	MaxDrawdownDuration  []int     `json:"max_drawdown_duration"`
}

func newRunDistributions(n int) *RunDistributions {
	return &RunDistributions{
		MaxDrawdown:          make([]float64, n),
		FinalEquity:          make([]float64, n),
		MinEquity:            make([]float64, n),
		CAGR:                 make([]float64, n),
		Sharpe:               make([]float64, n),
		Sortino:              make([]float64, n),
		Calmar:               make([]float64, n),
		MaxWinStreak:         make([]int, n),
		MaxLossStreak:        make([]int, n),
		RecoveryFactor:       make([]float64, n),
		ProfitFactor:         make([]float64, n),
		MeanDrawdownDuration: make([]float64, n),
		MaxDrawdownDuration:  make([]int, n),
	}
}

// set writes one run's metrics into slot i. Slots are write-once; no two
// iterations share a slot.
func (d *RunDistributions) set(i int, m runMetrics) {
	d.MaxDrawdown[i] = m.MaxDrawdown
	d.FinalEquity[i] = m.FinalEquity
	d.MinEquity[i] = m.MinEquity
	d.CAGR[i] = m.CAGR
	d.Sharpe[i] = m.Sharpe
	d.Sortino[i] = m.Sortino
	d.Calmar[i] = m.Calmar
	d.MaxWinStreak[i] = m.MaxWinStreak
	d.MaxLossStreak[i] = m.MaxLossStreak
	d.RecoveryFactor[i] = m.RecoveryFactor
	d.ProfitFactor[i] = m.ProfitFactor
	d.MeanDrawdownDuration[i] = m.MeanDrawdownDuration
	d.MaxDrawdownDuration[i] = m.MaxDrawdownDuration
}

// truncate discards the unwritten tail after an early cancellation so the
// zero-valued slots never reach the aggregate statistics.
func (d *RunDistributions) truncate(n int) {
	d.MaxDrawdown = d.MaxDrawdown[:n]
	d.FinalEquity = d.FinalEquity[:n]
	d.MinEquity = d.MinEquity[:n]
	d.CAGR = d.CAGR[:n]
	d.Sharpe = d.Sharpe[:n]
	d.Sortino = d.Sortino[:n]
	d.Calmar = d.Calmar[:n]
	d.MaxWinStreak = d.MaxWinStreak[:n]
	d.MaxLossStreak = d.MaxLossStreak[:n]
	d.RecoveryFactor = d.RecoveryFactor[:n]
	d.ProfitFactor = d.ProfitFactor[:n]
	d.MeanDrawdownDuration = d.MeanDrawdownDuration[:n]
	d.MaxDrawdownDuration = d.MaxDrawdownDuration[:n]
}

// Summary holds the aggregate statistics over all completed runs, plus VaR
// and CVaR computed once from the original (unsampled) return distribution.
type Summary struct {
	VaR  float64 `json:"var"`
	CVaR float64 `json:"cvar"`

	DrawdownP50 float64 `json:"drawdown_p50"`
	DrawdownP95 float64 `json:"drawdown_p95"`
	DrawdownP99 float64 `json:"drawdown_p99"`

	FinalEquityP5  float64 `json:"final_equity_p5"`
	FinalEquityP95 float64 `json:"final_equity_p95"`

	MeanCAGR   float64 `json:"mean_cagr"`
	MedianCAGR float64 `json:"median_cagr"`

	// Means over finite entries only; an infinite run never poisons these.
	MeanSharpe         float64 `json:"mean_sharpe"`
	MeanSortino        float64 `json:"mean_sortino"`
	MeanCalmar         float64 `json:"mean_calmar"`
	MeanRecoveryFactor float64 `json:"mean_recovery_factor"`
	MeanProfitFactor   float64 `json:"mean_profit_factor"`

	MeanMaxWinStreak  float64 `json:"mean_max_win_streak"`
	MeanMaxLossStreak float64 `json:"mean_max_loss_streak"`

	MeanDrawdownDuration float64 `json:"mean_drawdown_duration"`
	MaxDrawdownDuration  int     `json:"max_drawdown_duration"`

	RiskOfRuin          float64 `json:"risk_of_ruin"`
	ProbabilityOfProfit float64 `json:"probability_of_profit"`
}

// Results is the immutable outcome of one simulation run. Ownership
// transfers to the caller; the engine keeps no reference to it.
type Results struct {
	Config        Config  `json:"config"`
	CompletedRuns int     `json:"completed_runs"`
	Cancelled     bool    `json:"cancelled"`
	Summary       Summary `json:"summary"`

	Runs *RunDistributions `json:"runs"`

	// EquityBands is a trades x len(EquityBandPercentiles) matrix: for
	// every trade index, the equity percentiles across all completed
	// simulated curves. Intended for charting the fan of outcomes.
	EquityBands [][]float64 `json:"equity_bands"`
}

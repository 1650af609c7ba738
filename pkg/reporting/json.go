package reporting

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/quantdesk/strategy-sim/internal/montecarlo"
)

// jsonFloat marshals the ratio sentinels that encoding/json rejects:
// +Inf becomes the string "+Inf" so downstream consumers can still tell
// undefined-but-favorable apart from a plain number.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(v):
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type summaryJSON struct {
	VaR                  jsonFloat `json:"var"`
	CVaR                 jsonFloat `json:"cvar"`
	DrawdownP50          jsonFloat `json:"drawdown_p50"`
	DrawdownP95          jsonFloat `json:"drawdown_p95"`
	DrawdownP99          jsonFloat `json:"drawdown_p99"`
	FinalEquityP5        jsonFloat `json:"final_equity_p5"`
	FinalEquityP95       jsonFloat `json:"final_equity_p95"`
	MeanCAGR             jsonFloat `json:"mean_cagr"`
	MedianCAGR           jsonFloat `json:"median_cagr"`
	MeanSharpe           jsonFloat `json:"mean_sharpe"`
	MeanSortino          jsonFloat `json:"mean_sortino"`
	MeanCalmar           jsonFloat `json:"mean_calmar"`
	MeanRecoveryFactor   jsonFloat `json:"mean_recovery_factor"`
	MeanProfitFactor     jsonFloat `json:"mean_profit_factor"`
	MeanMaxWinStreak     jsonFloat `json:"mean_max_win_streak"`
	MeanMaxLossStreak    jsonFloat `json:"mean_max_loss_streak"`
	MeanDrawdownDuration jsonFloat `json:"mean_drawdown_duration"`
	MaxDrawdownDuration  int       `json:"max_drawdown_duration"`
	RiskOfRuin           jsonFloat `json:"risk_of_ruin"`
	ProbabilityOfProfit  jsonFloat `json:"probability_of_profit"`
}

type distributionsJSON struct {
	MaxDrawdown          []jsonFloat `json:"max_drawdown"`
	FinalEquity          []jsonFloat `json:"final_equity"`
	MinEquity            []jsonFloat `json:"min_equity"`
	CAGR                 []jsonFloat `json:"cagr"`
	Sharpe               []jsonFloat `json:"sharpe"`
	Sortino              []jsonFloat `json:"sortino"`
	Calmar               []jsonFloat `json:"calmar"`
	MaxWinStreak         []int       `json:"max_win_streak"`
	MaxLossStreak        []int       `json:"max_loss_streak"`
	RecoveryFactor       []jsonFloat `json:"recovery_factor"`
	ProfitFactor         []jsonFloat `json:"profit_factor"`
	MeanDrawdownDuration []jsonFloat `json:"mean_drawdown_duration"`
	MaxDrawdownDuration  []int       `json:"max_drawdown_duration"`
}

type resultsJSON struct {
	Config        montecarlo.Config `json:"config"`
	CompletedRuns int               `json:"completed_runs"`
	Cancelled     bool              `json:"cancelled"`
	Summary       summaryJSON       `json:"summary"`
	Runs          distributionsJSON `json:"runs"`
	EquityBands   [][]float64       `json:"equity_bands"`
}

func toJSONFloats(values []float64) []jsonFloat {
	out := make([]jsonFloat, len(values))
	for i, v := range values {
		out[i] = jsonFloat(v)
	}
	return out
}

func convertResults(res *montecarlo.Results) resultsJSON {
	s := res.Summary
	return resultsJSON{
		Config:        res.Config,
		CompletedRuns: res.CompletedRuns,
		Cancelled:     res.Cancelled,
		Summary: summaryJSON{
			VaR:                  jsonFloat(s.VaR),
			CVaR:                 jsonFloat(s.CVaR),
			DrawdownP50:          jsonFloat(s.DrawdownP50),
			DrawdownP95:          jsonFloat(s.DrawdownP95),
			DrawdownP99:          jsonFloat(s.DrawdownP99),
			FinalEquityP5:        jsonFloat(s.FinalEquityP5),
			FinalEquityP95:       jsonFloat(s.FinalEquityP95),
			MeanCAGR:             jsonFloat(s.MeanCAGR),
			MedianCAGR:           jsonFloat(s.MedianCAGR),
			MeanSharpe:           jsonFloat(s.MeanSharpe),
			MeanSortino:          jsonFloat(s.MeanSortino),
			MeanCalmar:           jsonFloat(s.MeanCalmar),
			MeanRecoveryFactor:   jsonFloat(s.MeanRecoveryFactor),
			MeanProfitFactor:     jsonFloat(s.MeanProfitFactor),
			MeanMaxWinStreak:     jsonFloat(s.MeanMaxWinStreak),
			MeanMaxLossStreak:    jsonFloat(s.MeanMaxLossStreak),
			MeanDrawdownDuration: jsonFloat(s.MeanDrawdownDuration),
			MaxDrawdownDuration:  s.MaxDrawdownDuration,
			RiskOfRuin:           jsonFloat(s.RiskOfRuin),
			ProbabilityOfProfit:  jsonFloat(s.ProbabilityOfProfit),
		},
		Runs: distributionsJSON{
			MaxDrawdown:          toJSONFloats(res.Runs.MaxDrawdown),
			FinalEquity:          toJSONFloats(res.Runs.FinalEquity),
			MinEquity:            toJSONFloats(res.Runs.MinEquity),
			CAGR:                 toJSONFloats(res.Runs.CAGR),
			Sharpe:               toJSONFloats(res.Runs.Sharpe),
			Sortino:              toJSONFloats(res.Runs.Sortino),
			Calmar:               toJSONFloats(res.Runs.Calmar),
			MaxWinStreak:         res.Runs.MaxWinStreak,
			MaxLossStreak:        res.Runs.MaxLossStreak,
			RecoveryFactor:       toJSONFloats(res.Runs.RecoveryFactor),
			ProfitFactor:         toJSONFloats(res.Runs.ProfitFactor),
			MeanDrawdownDuration: toJSONFloats(res.Runs.MeanDrawdownDuration),
			MaxDrawdownDuration:  res.Runs.MaxDrawdownDuration,
		},
		EquityBands: res.EquityBands,
	}
}

// WriteResultsJSON writes the full results, including all per-run
// distributions, to a JSON file.
func WriteResultsJSON(res *montecarlo.Results, path string) error {
	data, err := json.MarshalIndent(convertResults(res), "", "  ")
	if err != nil {
		return err
	}

	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

package montecarlo

// buildEquityCurve converts one sampled return path into a per-trade equity
// trajectory under the configured position sizing. dst and returns must
// have the same length.
func buildEquityCurve(dst, returns []float64, cfg *Config) {
	switch cfg.Sizing {
	case SizingFlatStake:
		// Additive: a fixed stake is risked on every trade.
		equity := cfg.InitialCapital
		for i, r := range returns {
			equity += cfg.FlatStake * r
			dst[i] = equity
		}
	case SizingKellyFraction:
		compound(dst, returns, cfg.InitialCapital, cfg.KellyFractionPct/100)
	case SizingCustomPercent:
		compound(dst, returns, cfg.InitialCapital, cfg.CustomPositionPct/100)
	}
}

// compound applies a fixed fraction of current equity to every trade.
func compound(dst, returns []float64, capital, frac float64) {
	equity := capital
	for i, r := range returns {
		equity *= 1 + frac*r
		dst[i] = equity
	}
}

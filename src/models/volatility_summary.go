package models

type VolatilityRegime string

const (
	VolatilityRegimeLow    VolatilityRegime = "low"
	VolatilityRegimeNormal VolatilityRegime = "normal"
	VolatilityRegimeHigh   VolatilityRegime = "high"
)

// IVMetrics is only present on a VolatilitySummary when a current implied
// volatility was supplied to the engine.
type IVMetrics struct {
	CurrentIV  float64
	Rank       float64
	Percentile float64
	Expensive  bool
	Analysis   string
}

// VolatilitySummary is a per-underlying snapshot of realized volatility. HV
// values are annualized percentages.
type VolatilitySummary struct {
	HV20d  float64
	HV30d  float64
	HV60d  float64
	Regime VolatilityRegime
	IV     *IVMetrics
}

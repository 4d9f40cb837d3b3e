package models

// ScanConfig holds the opportunity-filter thresholds.
type ScanConfig struct {
	MinIVRank         float64
	MaxIVRank         float64
	MinVolume         int64
	MinOpenInterest   int64
	MaxPremium        float64
	MinDTE            int
	MaxDTE            int
	MinLiquidityRatio float64
}

func NewDefaultScanConfig() *ScanConfig {
	return &ScanConfig{
		MinIVRank:         30.0,
		MaxIVRank:         100.0,
		MinVolume:         100,
		MinOpenInterest:   100,
		MaxPremium:        200.0,
		MinDTE:            0,
		MaxDTE:            45,
		MinLiquidityRatio: 0.3,
	}
}

// RiskConfig holds the account risk-budget parameters.
type RiskConfig struct {
	MaxPortfolioRisk  float64
	MaxPositionSize   float64
	MaxSectorExposure float64
	MaxPremium        float64
	StopLossPct       float64
	ProfitTargetPct   float64
}

func NewDefaultRiskConfig() *RiskConfig {
	return &RiskConfig{
		MaxPortfolioRisk:  0.02,
		MaxPositionSize:   0.10,
		MaxSectorExposure: 0.30,
		MaxPremium:        200.0,
		StopLossPct:       0.50,
		ProfitTargetPct:   0.50,
	}
}

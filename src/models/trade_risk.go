package models

// TradeRisk is the risk profile of a proposed long option trade, computed
// fresh per query against a given account value.
type TradeRisk struct {
	MaxLoss         float64
	MaxGain         float64
	BreakEven       float64
	RiskRewardRatio float64
	PositionSize    int
	AccountRiskPct  float64
	Recommended     bool
	Warnings        []string
}

// PortfolioHeat reports whether the account can take on another position.
type PortfolioHeat struct {
	CanAdd             bool
	CurrentExposurePct float64
	Warnings           []string
}

// GreeksExposure aggregates greeks across a position list, each weighted by
// contract count.
type GreeksExposure struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
}

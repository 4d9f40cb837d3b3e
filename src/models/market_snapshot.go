package models

// MarketSnapshot bundles the current quote and volatility view of one
// underlying for scoring and signal generation. Either part may be nil when
// the corresponding input was unavailable; consumers degrade to neutral
// defaults instead of failing.
type MarketSnapshot struct {
	Symbol     StockSymbol
	Quote      *Quote
	Volatility *VolatilitySummary
}

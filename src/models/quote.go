package models

// Quote is a point-in-time snapshot of the underlying. Volume and MarketCap
// are optional vendor extras.
type Quote struct {
	Symbol    StockSymbol
	Price     float64
	ChangePct float64
	Volume    *int64
	MarketCap *float64
}

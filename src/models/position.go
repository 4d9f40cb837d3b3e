package models

import "time"

// Position is an open option position as the caller tracks it. Greeks are
// optional; a missing greek contributes zero to portfolio exposure.
type Position struct {
	Symbol           StockSymbol
	OptionType       OptionType
	Strike           float64
	Expiration       time.Time
	DaysToExpiration int
	EntryPrice       float64
	CurrentPrice     float64
	Contracts        int
	Value            float64
	Delta            *float64
	Gamma            *float64
	Theta            *float64
	Vega             *float64
}

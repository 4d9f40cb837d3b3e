package models

import "time"

// ContractSize is the number of shares one standard equity option controls.
const ContractSize = 100

// OptionContract is the canonical, normalized view of one chain row. Bid, Ask,
// MidPrice, Premium, IVPct and LiquidityRatio use NaN for "not available";
// Volume and OpenInterest stay nil when the vendor never supplied the column,
// so "no data" and "zero" remain distinguishable downstream.
type OptionContract struct {
	Symbol           OptionSymbol
	UnderlyingSymbol StockSymbol
	OptionType       OptionType
	Strike           float64
	Expiration       time.Time
	DaysToExpiration int
	Bid              float64
	Ask              float64
	MidPrice         float64
	Premium          float64
	IVPct            float64
	Volume           *int64
	OpenInterest     *int64
	InTheMoney       *bool
	LiquidityRatio   float64
}

func (c *OptionContract) Moneyness(underlyingPrice float64) OptionMoneyness {
	if c.Strike == underlyingPrice {
		return OptionMoneynessAtTheMoney
	}

	switch c.OptionType {
	case Call:
		if c.Strike < underlyingPrice {
			return OptionMoneynessInTheMoney
		}
	case Put:
		if c.Strike > underlyingPrice {
			return OptionMoneynessInTheMoney
		}
	}

	return OptionMoneynessOutOfTheMoney
}

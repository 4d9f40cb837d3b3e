package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chainNow = time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

func expiringIn(days int) string {
	return chainNow.AddDate(0, 0, days).Format("2006-01-02")
}

func rawRow(strike, bid, ask string, days int, optionType string) *RawContractRowDTO {
	return &RawContractRowDTO{
		Strike:            strike,
		Bid:               bid,
		Ask:               ask,
		Volume:            "250",
		OpenInterest:      "500",
		ImpliedVolatility: "0.25",
		Expiration:        expiringIn(days),
		OptionType:        optionType,
	}
}

func TestNewOptionChain(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := NewOptionChain(nil, chainNow)
		assert.ErrorIs(t, err, InvalidInputErr)

		_, err = NewOptionChain([]*RawContractRowDTO{}, chainNow)
		assert.ErrorIs(t, err, InvalidInputErr)
	})

	t.Run("normalizes a row", func(t *testing.T) {
		chain, err := NewOptionChain([]*RawContractRowDTO{rawRow("100", "1.00", "1.20", 21, "CALL")}, chainNow)
		require.NoError(t, err)
		require.Equal(t, 1, chain.Len())

		c := chain.Contracts()[0]
		assert.Equal(t, Call, c.OptionType)
		assert.Equal(t, 100.0, c.Strike)
		assert.Equal(t, 21, c.DaysToExpiration)
		assert.Equal(t, 1.10, c.MidPrice)
		assert.Equal(t, 120.0, c.Premium)
		assert.Equal(t, 25.0, c.IVPct)
		assert.Equal(t, 0.5, c.LiquidityRatio)
	})

	t.Run("premium always positive", func(t *testing.T) {
		rows := []*RawContractRowDTO{
			rawRow("100", "1.00", "1.20", 21, "call"),
			rawRow("105", "0", "0", 21, "call"),
		}

		chain, err := NewOptionChain(rows, chainNow)
		require.NoError(t, err)

		assert.Equal(t, 1, chain.Len())
		for _, c := range chain.Contracts() {
			assert.Greater(t, c.Premium, 0.0)
		}
	})

	t.Run("drops expired contracts", func(t *testing.T) {
		rows := []*RawContractRowDTO{
			rawRow("100", "1.00", "1.20", 0, "call"),
			rawRow("100", "1.00", "1.20", 14, "call"),
		}

		chain, err := NewOptionChain(rows, chainNow)
		require.NoError(t, err)

		assert.Equal(t, 1, chain.Len())
		assert.Equal(t, 14, chain.Contracts()[0].DaysToExpiration)
	})

	t.Run("mid price falls back to last price", func(t *testing.T) {
		row := rawRow("100", "", "", 21, "call")
		row.LastPrice = "1.35"

		chain, err := NewOptionChain([]*RawContractRowDTO{row}, chainNow)
		require.NoError(t, err)
		require.Equal(t, 1, chain.Len())

		c := chain.Contracts()[0]
		assert.Equal(t, 1.35, c.MidPrice)
		assert.Equal(t, 135.0, c.Premium)
	})

	t.Run("missing iv stays NaN", func(t *testing.T) {
		row := rawRow("100", "1.00", "1.20", 21, "call")
		row.ImpliedVolatility = ""

		chain, err := NewOptionChain([]*RawContractRowDTO{row}, chainNow)
		require.NoError(t, err)

		assert.True(t, math.IsNaN(chain.Contracts()[0].IVPct))
	})

	t.Run("malformed row fails the whole call", func(t *testing.T) {
		rows := []*RawContractRowDTO{
			rawRow("100", "1.00", "1.20", 21, "call"),
			rawRow("not-a-number", "1.00", "1.20", 21, "call"),
		}

		_, err := NewOptionChain(rows, chainNow)
		assert.Error(t, err)
	})

	t.Run("missing open interest column", func(t *testing.T) {
		rows := []*RawContractRowDTO{
			rawRow("100", "1.00", "1.20", 21, "call"),
			rawRow("105", "0.80", "0.95", 21, "call"),
		}
		for _, row := range rows {
			row.OpenInterest = ""
		}

		chain, err := NewOptionChain(rows, chainNow)
		require.NoError(t, err)
		require.Equal(t, 2, chain.Len())

		assert.False(t, chain.HasOpenInterest())
		for _, c := range chain.Contracts() {
			assert.True(t, math.IsNaN(c.LiquidityRatio))
		}

		// min-OI filter degrades to a no-op
		filtered := chain.FilterByOpenInterest(100)
		assert.Equal(t, 2, filtered.Len())
	})
}

func TestOptionChainFilters(t *testing.T) {
	rows := []*RawContractRowDTO{
		rawRow("95", "4.00", "4.20", 5, "call"),
		rawRow("100", "1.00", "1.20", 21, "call"),
		rawRow("105", "0.40", "0.55", 21, "call"),
		rawRow("100", "1.50", "1.70", 35, "put"),
		rawRow("110", "2.80", "3.10", 60, "call"),
	}

	newChain := func(t *testing.T) *OptionChain {
		chain, err := NewOptionChain(rows, chainNow)
		require.NoError(t, err)
		return chain
	}

	t.Run("filter by dte range", func(t *testing.T) {
		chain := newChain(t)
		filtered := chain.FilterByDTE(7, 45)

		assert.Equal(t, 3, filtered.Len())
		for _, c := range filtered.Contracts() {
			assert.GreaterOrEqual(t, c.DaysToExpiration, 7)
			assert.LessOrEqual(t, c.DaysToExpiration, 45)
		}
	})

	t.Run("filter by premium ceiling", func(t *testing.T) {
		chain := newChain(t)
		filtered := chain.FilterByPremium(200)

		for _, c := range filtered.Contracts() {
			assert.LessOrEqual(t, c.Premium, 200.0)
		}
	})

	t.Run("filter by type is case insensitive", func(t *testing.T) {
		chain := newChain(t)

		puts := chain.FilterByType("PUT")
		require.Equal(t, 1, puts.Len())
		assert.Equal(t, Put, puts.Contracts()[0].OptionType)
	})

	t.Run("filters never mutate the source", func(t *testing.T) {
		chain := newChain(t)
		before := chain.Len()

		chain.FilterByDTE(7, 14)
		chain.FilterByPremium(50)
		chain.FilterByType(Put)

		assert.Equal(t, before, chain.Len())
	})

	t.Run("disjoint filters compose in any order", func(t *testing.T) {
		chain := newChain(t)

		a := chain.FilterByDTE(7, 45).FilterByPremium(150)
		b := chain.FilterByPremium(150).FilterByDTE(7, 45)

		assert.Equal(t, a.Contracts(), b.Contracts())
	})

	t.Run("filter by volume", func(t *testing.T) {
		chain := newChain(t)

		assert.Equal(t, chain.Len(), chain.FilterByVolume(100).Len())
		assert.Equal(t, 0, chain.FilterByVolume(1000).Len())
	})

	t.Run("filter by strike range", func(t *testing.T) {
		chain := newChain(t)
		ntm := chain.FilterByStrikeRange(95, 105)

		assert.Equal(t, 4, ntm.Len())
	})

	t.Run("filter by liquidity ratio", func(t *testing.T) {
		chain := newChain(t)

		// every fixture row has ratio 0.5
		assert.Equal(t, chain.Len(), chain.FilterByLiquidityRatio(0.5).Len())
		assert.Equal(t, 0, chain.FilterByLiquidityRatio(2.0).Len())
	})
}

func TestOptionChainViews(t *testing.T) {
	rows := []*RawContractRowDTO{
		rawRow("95", "4.00", "4.20", 21, "call"),
		rawRow("100", "1.00", "1.20", 21, "call"),
		rawRow("105", "0.40", "0.55", 35, "call"),
		rawRow("100", "1.50", "1.70", 35, "put"),
	}

	chain, err := NewOptionChain(rows, chainNow)
	require.NoError(t, err)

	t.Run("strikes are sorted and unique", func(t *testing.T) {
		assert.Equal(t, []float64{95, 100, 105}, chain.Strikes())
	})

	t.Run("expirations are sorted and unique", func(t *testing.T) {
		assert.Len(t, chain.Expirations(), 2)
	})

	t.Run("find atm", func(t *testing.T) {
		atm := chain.FindATM(101, Call)
		require.NotNil(t, atm)
		assert.Equal(t, 100.0, atm.Strike)

		assert.Nil(t, chain.Empty().FindATM(101, Call))
	})

	t.Run("summary", func(t *testing.T) {
		summary := chain.Summary()

		assert.Equal(t, 4, summary.TotalContracts)
		assert.Equal(t, 3, summary.Calls)
		assert.Equal(t, 1, summary.Puts)
		assert.Equal(t, 21, summary.MinDTE)
		assert.Equal(t, 35, summary.MaxDTE)
		assert.Equal(t, 95.0, summary.MinStrike)
		assert.Equal(t, 105.0, summary.MaxStrike)
		assert.Equal(t, 250.0, summary.AvgVolume)
	})
}

func TestOptionContractMoneyness(t *testing.T) {
	call := OptionContract{OptionType: Call, Strike: 100}
	put := OptionContract{OptionType: Put, Strike: 100}

	assert.Equal(t, OptionMoneynessInTheMoney, call.Moneyness(110))
	assert.Equal(t, OptionMoneynessOutOfTheMoney, call.Moneyness(90))
	assert.Equal(t, OptionMoneynessAtTheMoney, call.Moneyness(100))
	assert.Equal(t, OptionMoneynessInTheMoney, put.Moneyness(90))
	assert.Equal(t, OptionMoneynessOutOfTheMoney, put.Moneyness(110))
}

func TestCalendarDaysBetween(t *testing.T) {
	from := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 15, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 14, CalendarDaysBetween(from, to))
	assert.Equal(t, 0, CalendarDaysBetween(from, from))
	assert.Equal(t, -14, CalendarDaysBetween(to, from))
}

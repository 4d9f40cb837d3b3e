package models

import (
	"fmt"
	"math"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// OptionChain is an immutable table of normalized contracts. Every filter
// returns a new chain and never mutates its receiver, so intermediate chains
// stay valid for branching pipelines (e.g. a liquidity-anomaly view and a
// near-the-money view built from the same normalization pass).
type OptionChain struct {
	contracts       []OptionContract
	hasVolume       bool
	hasOpenInterest bool
}

// NewOptionChain normalizes a batch of raw rows. Rows whose premium is not
// positive and rows already expired are dropped; a row that fails type
// coercion fails the whole call.
func NewOptionChain(rows []*RawContractRowDTO, now time.Time) (*OptionChain, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("NewOptionChain: %w", InvalidInputErr)
	}

	chain := &OptionChain{}

	for i, row := range rows {
		if row.HasVolume() {
			chain.hasVolume = true
		}

		if row.HasOpenInterest() {
			chain.hasOpenInterest = true
		}

		contract, err := row.ToModel(now)
		if err != nil {
			return nil, fmt.Errorf("NewOptionChain: row %d: %w", i, err)
		}

		if contract.DaysToExpiration <= 0 {
			continue
		}

		if !(contract.Premium > 0) {
			continue
		}

		chain.contracts = append(chain.contracts, *contract)
	}

	log.Infof("processed options chain: %d contracts", len(chain.contracts))

	return chain, nil
}

func (chain *OptionChain) derive(contracts []OptionContract) *OptionChain {
	return &OptionChain{
		contracts:       contracts,
		hasVolume:       chain.hasVolume,
		hasOpenInterest: chain.hasOpenInterest,
	}
}

func (chain *OptionChain) filter(keep func(c *OptionContract) bool) *OptionChain {
	var out []OptionContract
	for i := range chain.contracts {
		if keep(&chain.contracts[i]) {
			out = append(out, chain.contracts[i])
		}
	}

	return chain.derive(out)
}

// Empty returns a chain with no rows but the same column flags.
func (chain *OptionChain) Empty() *OptionChain {
	return chain.derive(nil)
}

func (chain *OptionChain) Len() int {
	return len(chain.contracts)
}

// Contracts returns a defensive copy of the underlying table.
func (chain *OptionChain) Contracts() []OptionContract {
	out := make([]OptionContract, len(chain.contracts))
	copy(out, chain.contracts)
	return out
}

// HasVolume reports whether the source data carried a volume column.
func (chain *OptionChain) HasVolume() bool {
	return chain.hasVolume
}

// HasOpenInterest reports whether the source data carried an open interest
// column.
func (chain *OptionChain) HasOpenInterest() bool {
	return chain.hasOpenInterest
}

// FilterByDTE keeps contracts whose days to expiration fall inside
// [minDTE, maxDTE].
func (chain *OptionChain) FilterByDTE(minDTE, maxDTE int) *OptionChain {
	return chain.filter(func(c *OptionContract) bool {
		return c.DaysToExpiration >= minDTE && c.DaysToExpiration <= maxDTE
	})
}

// FilterByPremium keeps contracts costing at most maxPremium to buy.
func (chain *OptionChain) FilterByPremium(maxPremium float64) *OptionChain {
	return chain.filter(func(c *OptionContract) bool {
		return c.Premium <= maxPremium
	})
}

func (chain *OptionChain) FilterByType(optionType OptionType) *OptionChain {
	normalized, err := NewOptionType(string(optionType))
	if err != nil {
		log.Warnf("FilterByType: %v; returning empty chain", err)
		return chain.derive(nil)
	}

	return chain.filter(func(c *OptionContract) bool {
		return c.OptionType == normalized
	})
}

// FilterByVolume is a no-op when the source data had no volume column.
func (chain *OptionChain) FilterByVolume(minVolume int64) *OptionChain {
	if !chain.hasVolume {
		log.Warn("FilterByVolume: no volume column in source data, skipping filter")
		return chain.derive(chain.Contracts())
	}

	return chain.filter(func(c *OptionContract) bool {
		return c.Volume != nil && *c.Volume >= minVolume
	})
}

// FilterByOpenInterest is a no-op when the source data had no open interest
// column.
func (chain *OptionChain) FilterByOpenInterest(minOpenInterest int64) *OptionChain {
	if !chain.hasOpenInterest {
		log.Warn("FilterByOpenInterest: no open interest column in source data, skipping filter")
		return chain.derive(chain.Contracts())
	}

	return chain.filter(func(c *OptionContract) bool {
		return c.OpenInterest != nil && *c.OpenInterest >= minOpenInterest
	})
}

func (chain *OptionChain) FilterByStrikeRange(minStrike, maxStrike float64) *OptionChain {
	return chain.filter(func(c *OptionContract) bool {
		return c.Strike >= minStrike && c.Strike <= maxStrike
	})
}

// FilterByLiquidityRatio keeps contracts whose volume/open-interest ratio is
// at least minRatio. Contracts with an undefined ratio never qualify.
func (chain *OptionChain) FilterByLiquidityRatio(minRatio float64) *OptionChain {
	return chain.filter(func(c *OptionContract) bool {
		return !math.IsNaN(c.LiquidityRatio) && c.LiquidityRatio >= minRatio
	})
}

// Expirations returns the sorted unique expiration dates in the chain.
func (chain *OptionChain) Expirations() []time.Time {
	seen := make(map[time.Time]bool)
	var out []time.Time

	for i := range chain.contracts {
		exp := chain.contracts[i].Expiration
		if !seen[exp] {
			seen[exp] = true
			out = append(out, exp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})

	return out
}

// Strikes returns the sorted unique strike prices in the chain.
func (chain *OptionChain) Strikes() []float64 {
	seen := make(map[float64]bool)
	var out []float64

	for i := range chain.contracts {
		strike := chain.contracts[i].Strike
		if !seen[strike] {
			seen[strike] = true
			out = append(out, strike)
		}
	}

	sort.Float64s(out)

	return out
}

// FindATM returns the contract of the requested type with the strike closest
// to the underlying price, or nil when the chain holds none.
func (chain *OptionChain) FindATM(underlyingPrice float64, optionType OptionType) *OptionContract {
	var best *OptionContract
	bestDistance := math.Inf(1)

	for i := range chain.contracts {
		c := &chain.contracts[i]
		if c.OptionType != optionType {
			continue
		}

		distance := math.Abs(c.Strike - underlyingPrice)
		if distance < bestDistance {
			bestDistance = distance
			best = c
		}
	}

	if best == nil {
		return nil
	}

	out := *best
	return &out
}

type ChainSummary struct {
	TotalContracts  int
	Calls           int
	Puts            int
	Expirations     int
	MinDTE          int
	MaxDTE          int
	MinStrike       float64
	MaxStrike       float64
	AvgVolume       float64
	AvgOpenInterest float64
}

// Summary computes descriptive statistics over the chain. AvgVolume and
// AvgOpenInterest are NaN when the source data lacked those columns.
func (chain *OptionChain) Summary() ChainSummary {
	summary := ChainSummary{
		TotalContracts:  len(chain.contracts),
		Expirations:     len(chain.Expirations()),
		AvgVolume:       math.NaN(),
		AvgOpenInterest: math.NaN(),
	}

	if len(chain.contracts) == 0 {
		return summary
	}

	summary.MinDTE = chain.contracts[0].DaysToExpiration
	summary.MaxDTE = chain.contracts[0].DaysToExpiration
	summary.MinStrike = chain.contracts[0].Strike
	summary.MaxStrike = chain.contracts[0].Strike

	var volumeTotal, openInterestTotal, volumeCount, openInterestCount int64

	for i := range chain.contracts {
		c := &chain.contracts[i]

		if c.OptionType == Call {
			summary.Calls++
		} else {
			summary.Puts++
		}

		if c.DaysToExpiration < summary.MinDTE {
			summary.MinDTE = c.DaysToExpiration
		}

		if c.DaysToExpiration > summary.MaxDTE {
			summary.MaxDTE = c.DaysToExpiration
		}

		if c.Strike < summary.MinStrike {
			summary.MinStrike = c.Strike
		}

		if c.Strike > summary.MaxStrike {
			summary.MaxStrike = c.Strike
		}

		if c.Volume != nil {
			volumeTotal += *c.Volume
			volumeCount++
		}

		if c.OpenInterest != nil {
			openInterestTotal += *c.OpenInterest
			openInterestCount++
		}
	}

	if volumeCount > 0 {
		summary.AvgVolume = float64(volumeTotal) / float64(volumeCount)
	}

	if openInterestCount > 0 {
		summary.AvgOpenInterest = float64(openInterestTotal) / float64(openInterestCount)
	}

	return summary
}

package volatility

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/options-edge/src/models"
)

const (
	// TradingDaysPerYear annualizes daily return volatility.
	TradingDaysPerYear = 252

	// DefaultLookbackPeriod is the rolling window used to build the
	// historical volatility series that stands in for a historical IV
	// series.
	DefaultLookbackPeriod = 50

	// DefaultDataPoints bounds how much of the rolling series is consulted
	// for rank and percentile.
	DefaultDataPoints = 252
)

// Calculator derives realized-volatility metrics from a chronological series
// of closing prices. It is cheap to construct and safe to build once per
// analysis pass.
type Calculator struct {
	closes  []float64
	returns []float64
}

// NewCalculator requires at least two positive closes in ascending time
// order; the last element is treated as the most recent.
func NewCalculator(candles []models.Candle) (*Calculator, error) {
	if len(candles) < 2 {
		return nil, fmt.Errorf("NewCalculator: need at least 2 closing prices: %w", models.InsufficientDataErr)
	}

	closes := make([]float64, 0, len(candles))
	for _, c := range candles {
		if c.Close <= 0 {
			return nil, fmt.Errorf("NewCalculator: non-positive close %v: %w", c.Close, models.InsufficientDataErr)
		}

		closes = append(closes, c.Close)
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}

	log.Infof("volatility calculator initialized with %d days of data", len(closes))

	return &Calculator{closes: closes, returns: returns}, nil
}

// HistoricalVolatility is the sample standard deviation of the most recent
// `period` daily log returns, as a percentage. When fewer returns exist the
// window shrinks to what is available. Annualization multiplies by
// sqrt(252).
func (calc *Calculator) HistoricalVolatility(period int, annualize bool) (float64, error) {
	if period < 1 {
		return 0, fmt.Errorf("HistoricalVolatility: period must be positive, got %d", period)
	}

	if period > len(calc.returns) {
		log.Warnf("HistoricalVolatility: not enough data for %d-day window, using %d returns", period, len(calc.returns))
		period = len(calc.returns)
	}

	recent := calc.returns[len(calc.returns)-period:]

	hv, err := stats.StandardDeviationSample(recent)
	if err != nil {
		return 0, fmt.Errorf("HistoricalVolatility: failed to calculate standard deviation: %v", err)
	}

	if annualize {
		hv = hv * math.Sqrt(TradingDaysPerYear)
	}

	return hv * 100, nil
}

// rollingHV builds an annualized rolling-window volatility series (percent),
// one sample per day once the window is full.
func (calc *Calculator) rollingHV(lookbackPeriod int) []float64 {
	if lookbackPeriod < 1 || lookbackPeriod > len(calc.returns) {
		return nil
	}

	series := make([]float64, 0, len(calc.returns)-lookbackPeriod+1)
	for i := lookbackPeriod; i <= len(calc.returns); i++ {
		window := calc.returns[i-lookbackPeriod : i]

		sd, err := stats.StandardDeviationSample(window)
		if err != nil {
			continue
		}

		series = append(series, sd*math.Sqrt(TradingDaysPerYear)*100)
	}

	return series
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// IVRank places the current IV inside its recent historical range and
// reports how often history sat strictly below it. A rolling realized-vol
// series stands in for historical IV, which is unavailable here. With no
// usable history both metrics default to a neutral 50.
func (calc *Calculator) IVRank(currentIV float64, lookbackPeriod, dataPoints int) (float64, float64) {
	series := calc.rollingHV(lookbackPeriod)
	if len(series) > dataPoints {
		series = series[len(series)-dataPoints:]
	}

	if len(series) == 0 {
		log.Warn("IVRank: not enough historical data, defaulting to neutral 50")
		return 50.0, 50.0
	}

	low, err := stats.Min(series)
	if err != nil {
		return 50.0, 50.0
	}

	high, err := stats.Max(series)
	if err != nil {
		return 50.0, 50.0
	}

	rank := 50.0
	if high != low {
		rank = (currentIV - low) / (high - low) * 100
	}

	below := 0
	for _, v := range series {
		if v < currentIV {
			below++
		}
	}

	percentile := float64(below) / float64(len(series)) * 100

	return clamp(rank, 0, 100), clamp(percentile, 0, 100)
}

// ExpectedMove is the one-standard-deviation price range implied by the IV
// over the contract's remaining life: price * (iv/100) * sqrt(dte/365).
// Non-positive DTE yields a zero move with both bounds at the current price.
func (calc *Calculator) ExpectedMove(currentPrice, iv float64, dte int) (move, lower, upper float64) {
	if dte <= 0 {
		return 0, currentPrice, currentPrice
	}

	move = currentPrice * (iv / 100) * math.Sqrt(float64(dte)/365)

	return move, currentPrice - move, currentPrice + move
}

// Regime classifies the current 30-day realized volatility.
func (calc *Calculator) Regime() models.VolatilityRegime {
	hv30, err := calc.HistoricalVolatility(30, true)
	if err != nil {
		return models.VolatilityRegimeNormal
	}

	if hv30 < 15 {
		return models.VolatilityRegimeLow
	} else if hv30 < 30 {
		return models.VolatilityRegimeNormal
	}

	return models.VolatilityRegimeHigh
}

// IsIVExpensive flags IV rank above 75. Rank between 50 and 75 is elevated
// but not flagged.
func (calc *Calculator) IsIVExpensive(currentIV float64) (bool, string) {
	rank, _ := calc.IVRank(currentIV, DefaultLookbackPeriod, DefaultDataPoints)

	if rank > 75 {
		return true, fmt.Sprintf("IV Rank is %.1f - IV is very high", rank)
	} else if rank > 50 {
		return false, fmt.Sprintf("IV Rank is %.1f - IV is elevated", rank)
	}

	return false, fmt.Sprintf("IV Rank is %.1f - IV is relatively low", rank)
}

// HVForPeriods computes annualized HV for each window that the data can
// fully cover; shorter windows are reported, longer ones skipped.
func (calc *Calculator) HVForPeriods(periods []int) map[int]float64 {
	out := make(map[int]float64)

	for _, p := range periods {
		if p > len(calc.closes) {
			continue
		}

		hv, err := calc.HistoricalVolatility(p, true)
		if err != nil {
			log.Warnf("HVForPeriods: failed to compute %d-day HV: %v", p, err)
			continue
		}

		out[p] = hv
	}

	return out
}

// Summary bundles the standard volatility view. IV metrics are attached only
// when a current IV is supplied.
func (calc *Calculator) Summary(currentIV *float64) models.VolatilitySummary {
	hv20, _ := calc.HistoricalVolatility(20, true)
	hv30, _ := calc.HistoricalVolatility(30, true)
	hv60, _ := calc.HistoricalVolatility(60, true)

	summary := models.VolatilitySummary{
		HV20d:  hv20,
		HV30d:  hv30,
		HV60d:  hv60,
		Regime: calc.Regime(),
	}

	if currentIV != nil {
		rank, percentile := calc.IVRank(*currentIV, DefaultLookbackPeriod, DefaultDataPoints)
		expensive, analysis := calc.IsIVExpensive(*currentIV)

		summary.IV = &models.IVMetrics{
			CurrentIV:  *currentIV,
			Rank:       rank,
			Percentile: percentile,
			Expensive:  expensive,
			Analysis:   analysis,
		}
	}

	return summary
}

package scanner

import (
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/options-edge/src/models"
	"github.com/jiaming2012/options-edge/src/volatility"
)

// DataFetcher is the boundary to whatever supplies market data. The scanner
// never fetches anything itself; caching, retries and timeouts all live
// behind this interface.
type DataFetcher interface {
	GetOptionsChain(symbol models.StockSymbol) ([]*models.RawContractRowDTO, error)
	GetHistoricalCandles(symbol models.StockSymbol) ([]models.Candle, error)
	GetQuote(symbol models.StockSymbol) (*models.Quote, error)
}

// ScanParams narrows a scan. Zero-valued fields fall back to the scanner's
// configuration.
type ScanParams struct {
	MinDTE     int
	MaxDTE     int
	MaxPremium float64
	OptionType *models.OptionType
}

// Scanner runs the normalize -> filter pipeline for one or more symbols. It
// holds no state between scans beyond its configuration.
type Scanner struct {
	fetcher DataFetcher
	cfg     *models.ScanConfig
	now     func() time.Time
}

func NewScanner(fetcher DataFetcher, cfg *models.ScanConfig) *Scanner {
	if cfg == nil {
		cfg = models.NewDefaultScanConfig()
	}

	return &Scanner{
		fetcher: fetcher,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *Scanner) applyDefaults(params *ScanParams) {
	if params.MinDTE == 0 {
		params.MinDTE = s.cfg.MinDTE
	}

	if params.MaxDTE == 0 {
		params.MaxDTE = s.cfg.MaxDTE
	}

	if params.MaxPremium == 0 {
		params.MaxPremium = s.cfg.MaxPremium
	}
}

// ScanSymbol fetches, normalizes and filters one symbol's chain. An empty
// chain is a valid outcome, distinct from a fetch or normalization error.
func (s *Scanner) ScanSymbol(symbol models.StockSymbol, params ScanParams) (*models.OptionChain, error) {
	s.applyDefaults(&params)

	log.Infof("scanning %s for opportunities", symbol)

	rows, err := s.fetcher.GetOptionsChain(symbol)
	if err != nil {
		return nil, fmt.Errorf("ScanSymbol: failed to fetch options chain for %s: %w", symbol, err)
	}

	chain, err := models.NewOptionChain(rows, s.now())
	if err != nil {
		return nil, fmt.Errorf("ScanSymbol: failed to process options chain for %s: %w", symbol, err)
	}

	filtered := chain.
		FilterByDTE(params.MinDTE, params.MaxDTE).
		FilterByPremium(params.MaxPremium)

	if params.OptionType != nil {
		filtered = filtered.FilterByType(*params.OptionType)
	}

	filtered = filtered.
		FilterByVolume(s.cfg.MinVolume).
		FilterByOpenInterest(s.cfg.MinOpenInterest)

	if filtered.Len() == 0 {
		log.Infof("no opportunities found for %s with current filters", symbol)
	} else {
		log.Infof("found %d opportunities for %s", filtered.Len(), symbol)
	}

	return filtered, nil
}

// ScanSymbols scans a batch. A failure in one symbol is logged and skipped
// so it cannot sink the whole batch.
func (s *Scanner) ScanSymbols(symbols []models.StockSymbol, params ScanParams) map[models.StockSymbol]*models.OptionChain {
	results := make(map[models.StockSymbol]*models.OptionChain)

	for _, symbol := range symbols {
		chain, err := s.ScanSymbol(symbol, params)
		if err != nil {
			log.Errorf("ScanSymbols: error scanning %s: %v", symbol, err)
			continue
		}

		if chain.Len() > 0 {
			results[symbol] = chain
		}
	}

	log.Infof("scan complete: %d of %d symbols produced opportunities", len(results), len(symbols))

	return results
}

// MarketSnapshot assembles the quote and volatility context used by scoring
// and signal generation. Missing pieces are left nil rather than failing the
// snapshot.
func (s *Scanner) MarketSnapshot(symbol models.StockSymbol, currentIV *float64) models.MarketSnapshot {
	snapshot := models.MarketSnapshot{Symbol: symbol}

	quote, err := s.fetcher.GetQuote(symbol)
	if err != nil {
		log.Warnf("MarketSnapshot: failed to fetch quote for %s: %v", symbol, err)
	} else {
		snapshot.Quote = quote
	}

	candles, err := s.fetcher.GetHistoricalCandles(symbol)
	if err != nil {
		log.Warnf("MarketSnapshot: failed to fetch history for %s: %v", symbol, err)
		return snapshot
	}

	calc, err := volatility.NewCalculator(candles)
	if err != nil {
		log.Warnf("MarketSnapshot: failed to build volatility calculator for %s: %v", symbol, err)
		return snapshot
	}

	summary := calc.Summary(currentIV)
	snapshot.Volatility = &summary

	return snapshot
}

// FindLiquidityAnomalies returns contracts whose volume is unusually high
// relative to open interest, sorted by the ratio descending. A non-positive
// minRatio falls back to the configured threshold.
func (s *Scanner) FindLiquidityAnomalies(symbol models.StockSymbol, minRatio float64) ([]models.OptionContract, error) {
	if minRatio <= 0 {
		minRatio = s.cfg.MinLiquidityRatio
	}

	rows, err := s.fetcher.GetOptionsChain(symbol)
	if err != nil {
		return nil, fmt.Errorf("FindLiquidityAnomalies: failed to fetch options chain for %s: %w", symbol, err)
	}

	chain, err := models.NewOptionChain(rows, s.now())
	if err != nil {
		return nil, fmt.Errorf("FindLiquidityAnomalies: failed to process options chain for %s: %w", symbol, err)
	}

	anomalies := chain.FilterByLiquidityRatio(minRatio).Contracts()

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].LiquidityRatio > anomalies[j].LiquidityRatio
	})

	log.Infof("found %d liquidity anomalies for %s", len(anomalies), symbol)

	return anomalies, nil
}

// NearTheMoney returns the slice of the chain whose strikes sit within
// pctRange of the underlying price.
func (s *Scanner) NearTheMoney(symbol models.StockSymbol, underlyingPrice, pctRange float64) (*models.OptionChain, error) {
	rows, err := s.fetcher.GetOptionsChain(symbol)
	if err != nil {
		return nil, fmt.Errorf("NearTheMoney: failed to fetch options chain for %s: %w", symbol, err)
	}

	chain, err := models.NewOptionChain(rows, s.now())
	if err != nil {
		return nil, fmt.Errorf("NearTheMoney: failed to process options chain for %s: %w", symbol, err)
	}

	lower := underlyingPrice * (1 - pctRange)
	upper := underlyingPrice * (1 + pctRange)

	ntm := chain.FilterByStrikeRange(lower, upper)

	log.Infof("found %d near-the-money options for %s", ntm.Len(), symbol)

	return ntm, nil
}

// IVRankGate applies the scanner's configured IV-rank band to a whole chain:
// a rank below MinIVRank or above MaxIVRank rejects the entire table.
// Without volatility data the chain passes through untouched.
func (s *Scanner) IVRankGate(chain *models.OptionChain, snapshot models.MarketSnapshot) *models.OptionChain {
	gated := FilterByIVRank(chain, s.cfg.MinIVRank, snapshot)

	if snapshot.Volatility != nil && snapshot.Volatility.IV != nil && snapshot.Volatility.IV.Rank > s.cfg.MaxIVRank {
		log.Infof("IV rank (%.1f) above ceiling (%.1f)", snapshot.Volatility.IV.Rank, s.cfg.MaxIVRank)
		return chain.Empty()
	}

	return gated
}

// FilterByIVRank gates a whole chain on the underlying's IV rank: when the
// snapshot's rank sits below the threshold the entire table is rejected.
// Without volatility data the chain passes through untouched.
func FilterByIVRank(chain *models.OptionChain, minRank float64, snapshot models.MarketSnapshot) *models.OptionChain {
	if snapshot.Volatility == nil || snapshot.Volatility.IV == nil {
		log.Warn("FilterByIVRank: no volatility data in snapshot, skipping filter")
		return chain
	}

	if snapshot.Volatility.IV.Rank < minRank {
		log.Infof("IV rank (%.1f) below threshold (%.1f)", snapshot.Volatility.IV.Rank, minRank)
		return chain.Empty()
	}

	return chain
}

package strategy

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/options-edge/src/models"
)

// Entry gates. These duplicate the opportunity filter thresholds on purpose:
// a strategy must stay safe even when handed an unfiltered table.
const (
	maxEntryPremium      = 200.0
	minEntryDTE          = 7
	maxEntryDTE          = 45
	minEntryVolume       = 100
	minEntryOpenInterest = 100
)

// Exit thresholds. Fixed by the trading plan, not tunable per call.
const (
	profitTargetPct      = 50.0
	stopLossPct          = -50.0
	expirationExitDTE    = 3
	expirationExitMinPnl = 20.0
)

// SingleLegStrategy buys calls or puts outright. Calls profit on upside,
// puts on downside; both prefer cheap IV.
type SingleLegStrategy struct{}

func NewSingleLegStrategy() *SingleLegStrategy {
	return &SingleLegStrategy{}
}

func (s *SingleLegStrategy) Name() string {
	return "Single Leg"
}

// Analyze evaluates every candidate and returns all qualifying entry
// signals, preserving candidate order.
func (s *SingleLegStrategy) Analyze(candidates []models.ScoredContract, snapshot models.MarketSnapshot) []*models.Signal {
	var signals []*models.Signal

	for i := range candidates {
		if signal := s.evaluateCandidate(&candidates[i], snapshot); signal != nil {
			signals = append(signals, signal)
		}
	}

	return signals
}

// EvaluateEntry returns the best entry signal, which is simply the first
// qualifying candidate: callers hand in tables already sorted by score.
func (s *SingleLegStrategy) EvaluateEntry(candidates []models.ScoredContract, snapshot models.MarketSnapshot) *models.Signal {
	for i := range candidates {
		if signal := s.evaluateCandidate(&candidates[i], snapshot); signal != nil {
			return signal
		}
	}

	return nil
}

// EvaluateExit checks an open position against the profit target, the stop
// loss, and pre-expiration decay. A nil return means hold.
func (s *SingleLegStrategy) EvaluateExit(position models.Position, snapshot models.MarketSnapshot) *models.Signal {
	if position.EntryPrice == 0 || position.CurrentPrice == 0 {
		return nil
	}

	pnlPct := (position.CurrentPrice - position.EntryPrice) / position.EntryPrice * 100

	contracts := position.Contracts
	if contracts == 0 {
		contracts = 1
	}

	pnl := (position.CurrentPrice - position.EntryPrice) * float64(contracts) * models.ContractSize

	var reason string

	switch {
	case pnlPct >= profitTargetPct:
		reason = fmt.Sprintf("profit target reached: %+.1f%%", pnlPct)
	case pnlPct <= stopLossPct:
		reason = fmt.Sprintf("stop loss hit: %.1f%%", pnlPct)
	case position.DaysToExpiration <= expirationExitDTE && pnlPct < expirationExitMinPnl:
		reason = fmt.Sprintf("closing before expiration: %d DTE remaining", position.DaysToExpiration)
	default:
		return nil
	}

	log.Infof("exit signal for %s: %s", position.Symbol, reason)

	return &models.Signal{
		ID:           uuid.New(),
		Action:       models.SignalActionSell,
		Symbol:       position.Symbol,
		OptionType:   position.OptionType,
		Strike:       position.Strike,
		Expiration:   position.Expiration,
		DTE:          position.DaysToExpiration,
		Contracts:    contracts,
		CurrentPrice: position.CurrentPrice,
		Reason:       reason,
		PnL:          pnl,
		Timestamp:    time.Now(),
	}
}

func (s *SingleLegStrategy) evaluateCandidate(candidate *models.ScoredContract, snapshot models.MarketSnapshot) *models.Signal {
	c := &candidate.Contract

	if c.Premium > maxEntryPremium {
		return nil
	}

	if c.DaysToExpiration < minEntryDTE || c.DaysToExpiration > maxEntryDTE {
		return nil
	}

	if c.Volume == nil || *c.Volume < minEntryVolume {
		return nil
	}

	if c.OpenInterest == nil || *c.OpenInterest < minEntryOpenInterest {
		return nil
	}

	if snapshot.Quote == nil || snapshot.Quote.Price == 0 {
		return nil
	}

	ivRank := 50.0
	if snapshot.Volatility != nil && snapshot.Volatility.IV != nil {
		ivRank = snapshot.Volatility.IV.Rank
	}

	signal := &models.Signal{
		ID:           uuid.New(),
		Action:       models.SignalActionBuy,
		Symbol:       c.UnderlyingSymbol,
		OptionType:   c.OptionType,
		Strike:       c.Strike,
		Expiration:   c.Expiration,
		DTE:          c.DaysToExpiration,
		Premium:      c.Premium,
		Contracts:    1, // the risk calculator sizes the final position
		CurrentPrice: snapshot.Quote.Price,
		IVPct:        c.IVPct,
		IVRank:       ivRank,
		Volume:       c.Volume,
		OpenInterest: c.OpenInterest,
		Timestamp:    time.Now(),
	}

	signal.Rationale = s.generateRationale(signal, snapshot)

	return signal
}

// generateRationale explains a proposed entry in plain language: option
// details, IV-rank context, momentum vs contrarian framing from the day's
// move, and a fixed risk reminder.
func (s *SingleLegStrategy) generateRationale(signal *models.Signal, snapshot models.MarketSnapshot) string {
	var b strings.Builder

	change := snapshot.Quote.ChangePct

	b.WriteString(fmt.Sprintf("TRADE SIGNAL: %s %s\n", strings.ToUpper(string(signal.OptionType)), signal.Symbol))
	b.WriteString(fmt.Sprintf("Strike: $%.2f | Expiration: %d days | Premium: $%.2f | Stock: $%.2f\n",
		signal.Strike, signal.DTE, signal.Premium, signal.CurrentPrice))
	b.WriteString(fmt.Sprintf("IV Rank: %.1f | Daily Change: %+.2f%%\n", signal.IVRank, change))
	b.WriteString("Why this trade:\n")

	if signal.IVRank < 30 {
		b.WriteString(fmt.Sprintf("  - IV Rank (%.1f) is LOW - options are relatively cheap\n", signal.IVRank))
	} else if signal.IVRank < 50 {
		b.WriteString(fmt.Sprintf("  - IV Rank (%.1f) is NORMAL - fairly priced options\n", signal.IVRank))
	} else {
		b.WriteString(fmt.Sprintf("  - IV Rank (%.1f) is HIGH - expensive, ensure thesis is strong\n", signal.IVRank))
	}

	if signal.OptionType == models.Call {
		if change > 0 {
			b.WriteString(fmt.Sprintf("  - Stock is UP %+.1f%% today - momentum play\n", change))
		} else {
			b.WriteString("  - Buying on dip - contrarian play\n")
		}
	} else {
		if change < 0 {
			b.WriteString(fmt.Sprintf("  - Stock is DOWN %+.1f%% today - momentum play\n", change))
		} else {
			b.WriteString("  - Buying puts into strength - contrarian play\n")
		}
	}

	maxLoss := signal.Premium
	if math.IsNaN(maxLoss) {
		maxLoss = 0
	}

	b.WriteString("Risk reminder:\n")
	b.WriteString(fmt.Sprintf("  - Max loss: $%.2f (100%% of premium)\n", maxLoss))
	b.WriteString("  - Options expire worthless if the stock doesn't move\n")
	b.WriteString(fmt.Sprintf("  - Consider selling at profit target (%+.0f%%) or stop loss (%.0f%%)\n", profitTargetPct, stopLossPct))

	return b.String()
}

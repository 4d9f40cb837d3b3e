package risk

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/options-edge/src/models"
)

// conservativeGainMultiple estimates the upside of a long option as a fixed
// multiple of the premium paid. It is a deliberate stand-in for a payoff
// model: the scoring weights were tuned against this approximation, so it
// must not be silently replaced with real option pricing.
const conservativeGainMultiple = 3.0

// Calculator sizes positions against an account's risk budget.
type Calculator struct {
	accountValue float64
	cfg          *models.RiskConfig
}

// NewCalculator requires a positive account value. A nil config falls back
// to defaults.
func NewCalculator(accountValue float64, cfg *models.RiskConfig) (*Calculator, error) {
	if accountValue <= 0 {
		return nil, fmt.Errorf("NewCalculator: got %v: %w", accountValue, models.InvalidAccountValueErr)
	}

	if cfg == nil {
		cfg = models.NewDefaultRiskConfig()
	}

	log.Infof("risk calculator initialized with $%.2f account", accountValue)

	return &Calculator{accountValue: accountValue, cfg: cfg}, nil
}

// LongOptionRisk computes the risk profile of buying `contracts` options at
// `premium` per share. Max loss is the full premium paid; max gain uses the
// conservative multiple rather than a payoff curve.
func (calc *Calculator) LongOptionRisk(premium float64, contracts int) models.TradeRisk {
	totalPremium := premium * float64(contracts) * models.ContractSize

	maxLoss := totalPremium
	maxGain := totalPremium * conservativeGainMultiple

	rrRatio := 0.0
	if maxGain > 0 {
		rrRatio = maxLoss / maxGain
	}

	maxRiskAmount := calc.accountValue * calc.cfg.MaxPortfolioRisk
	recommendedContracts := int(maxRiskAmount / (premium * models.ContractSize))
	if recommendedContracts < 1 {
		recommendedContracts = 1
	}

	accountRiskPct := totalPremium / calc.accountValue * 100

	var warnings []string
	recommended := true

	if accountRiskPct > calc.cfg.MaxPortfolioRisk*100 {
		warnings = append(warnings, fmt.Sprintf("Position risk (%.1f%%) exceeds max (%.1f%%)", accountRiskPct, calc.cfg.MaxPortfolioRisk*100))
		recommended = false
	}

	if premium > calc.cfg.MaxPremium {
		warnings = append(warnings, fmt.Sprintf("Premium $%.2f exceeds max $%.2f", premium, calc.cfg.MaxPremium))
	}

	if totalPremium > calc.accountValue*calc.cfg.MaxPositionSize {
		warnings = append(warnings, fmt.Sprintf("Position value $%.2f exceeds max position size (%.0f%% of account)", totalPremium, calc.cfg.MaxPositionSize*100))
	}

	return models.TradeRisk{
		MaxLoss:         maxLoss,
		MaxGain:         maxGain,
		BreakEven:       premium,
		RiskRewardRatio: rrRatio,
		PositionSize:    recommendedContracts,
		AccountRiskPct:  accountRiskPct,
		Recommended:     recommended,
		Warnings:        warnings,
	}
}

// PositionSize computes a share count from the per-share distance between
// entry and stop. A zero distance returns 0 shares rather than an error. A
// non-positive riskPerTradePct falls back to the configured portfolio risk.
func (calc *Calculator) PositionSize(entryPrice, stopLossPrice, riskPerTradePct float64) int {
	if riskPerTradePct <= 0 {
		riskPerTradePct = calc.cfg.MaxPortfolioRisk
	}

	riskAmountPerShare := math.Abs(entryPrice - stopLossPrice)
	if riskAmountPerShare == 0 {
		return 0
	}

	totalRiskAmount := calc.accountValue * riskPerTradePct
	shares := int(totalRiskAmount / riskAmountPerShare)

	log.Infof("position size: %d shares at $%.2f, stop at $%.2f, risk $%.2f", shares, entryPrice, stopLossPrice, totalRiskAmount)

	return shares
}

// CheckPortfolioHeat compares aggregate position value to the account and
// refuses new exposure past 80%. Sector data is unavailable here, so the
// configured sector cap is applied per underlying instead. No positions
// means no heat.
func (calc *Calculator) CheckPortfolioHeat(currentPositions []models.Position) models.PortfolioHeat {
	heat := models.PortfolioHeat{CanAdd: true}

	if len(currentPositions) == 0 {
		return heat
	}

	totalValue := 0.0
	valueBySymbol := make(map[models.StockSymbol]float64)
	for _, p := range currentPositions {
		totalValue += p.Value
		valueBySymbol[p.Symbol] += p.Value
	}

	heat.CurrentExposurePct = totalValue / calc.accountValue * 100

	if heat.CurrentExposurePct > 80 {
		heat.Warnings = append(heat.Warnings, fmt.Sprintf("Portfolio is %.1f%% invested. Consider reducing exposure.", heat.CurrentExposurePct))
		heat.CanAdd = false
	}

	for symbol, value := range valueBySymbol {
		exposurePct := value / calc.accountValue * 100
		if exposurePct > calc.cfg.MaxSectorExposure*100 {
			heat.Warnings = append(heat.Warnings, fmt.Sprintf("%s is %.1f%% of the account, over the %.0f%% concentration limit", symbol, exposurePct, calc.cfg.MaxSectorExposure*100))
		}
	}

	return heat
}

// EstimateProbabilityOfProfit is a rough heuristic, not a calibrated
// probability: it measures the strike's distance from spot against the
// expected move. Callers must not treat the result as a pricing-model
// probability.
func (calc *Calculator) EstimateProbabilityOfProfit(optionType models.OptionType, currentPrice, strike, iv float64, dte int) float64 {
	expectedMove := currentPrice * (iv / 100) * math.Sqrt(float64(dte)/365)

	var distance float64
	if optionType == models.Call {
		distance = (strike - currentPrice) / currentPrice
	} else {
		distance = (currentPrice - strike) / currentPrice
	}

	var pop float64
	if distance < 0 {
		// Already in the money for this side.
		pop = 50 + math.Abs(distance)*100
	} else {
		pop = math.Max(10, 50-(distance/expectedMove)*50)
	}

	return clamp(pop, 5, 95)
}

// GreeksExposure totals the portfolio greeks, weighting each position by its
// contract count. Positions missing a greek contribute zero for it.
func (calc *Calculator) GreeksExposure(positions []models.Position) models.GreeksExposure {
	var total models.GreeksExposure

	for _, p := range positions {
		contracts := float64(p.Contracts)
		if p.Contracts == 0 {
			contracts = 1
		}

		if p.Delta != nil {
			total.Delta += *p.Delta * contracts
		}
		if p.Gamma != nil {
			total.Gamma += *p.Gamma * contracts
		}
		if p.Theta != nil {
			total.Theta += *p.Theta * contracts
		}
		if p.Vega != nil {
			total.Vega += *p.Vega * contracts
		}
	}

	return total
}

func (calc *Calculator) AccountValue() float64 {
	return calc.accountValue
}

func (calc *Calculator) Config() *models.RiskConfig {
	return calc.cfg
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

package risk

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/options-edge/src/models"
)

// ProposedTrade is the minimal description of a trade to evaluate.
type ProposedTrade struct {
	OptionType models.OptionType
	Premium    float64
	Contracts  int
}

// RiskReport renders a human-readable risk breakdown for a proposed long
// option trade.
func (calc *Calculator) RiskReport(trade ProposedTrade) string {
	contracts := trade.Contracts
	if contracts < 1 {
		contracts = 1
	}

	tradeRisk := calc.LongOptionRisk(trade.Premium, contracts)

	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	display.WriteString(fmt.Sprintf("Trade: %dx %s @ $%.2f\n", contracts, strings.ToUpper(string(trade.OptionType)), trade.Premium))

	table := tablewriter.NewWriter(display)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	rewardToRisk := 0.0
	if tradeRisk.RiskRewardRatio > 0 {
		rewardToRisk = 1 / tradeRisk.RiskRewardRatio
	}

	status := "WITHIN LIMITS"
	if !tradeRisk.Recommended {
		status = "EXCEEDS LIMITS"
	}

	table.Append([]string{"Max Loss", fmt.Sprintf("$%s", p.Sprintf("%.2f", tradeRisk.MaxLoss))})
	table.Append([]string{"Max Gain (est)", fmt.Sprintf("$%s", p.Sprintf("%.2f", tradeRisk.MaxGain))})
	table.Append([]string{"Break Even", fmt.Sprintf("$%.2f", tradeRisk.BreakEven)})
	table.Append([]string{"Risk/Reward", fmt.Sprintf("1:%.1f", rewardToRisk)})
	table.Append([]string{"Position Risk", fmt.Sprintf("%.2f%% of account", tradeRisk.AccountRiskPct)})
	table.Append([]string{"Max Allowed", fmt.Sprintf("%.1f%%", calc.cfg.MaxPortfolioRisk*100)})
	table.Append([]string{"Recommended Contracts", fmt.Sprintf("%d", tradeRisk.PositionSize)})
	table.Append([]string{"Status", status})

	table.Render()

	if len(tradeRisk.Warnings) > 0 {
		display.WriteString("WARNINGS:\n")
		for _, warning := range tradeRisk.Warnings {
			display.WriteString(fmt.Sprintf("  - %s\n", warning))
		}
	}

	return display.String()
}

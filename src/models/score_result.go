package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ScoreResult holds the per-contract sub-scores, each bounded to [0, 100],
// and the weighted total with its letter grade.
type ScoreResult struct {
	IVRankScore      float64
	LiquidityScore   float64
	DTEScore         float64
	PremiumScore     float64
	VolumeSurgeScore float64
	TrendScore       float64
	TotalScore       float64
	Grade            string
}

// ScoredContract attaches a score to a normalized contract without replacing
// it.
type ScoredContract struct {
	Contract OptionContract
	Scores   ScoreResult
}

type ScoredContracts []ScoredContract

func (contracts ScoredContracts) String() string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(display)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")
	table.SetHeader([]string{"Type", "Strike", "Exp", "DTE", "Premium", "IV%", "Score", "Grade"})

	for _, sc := range contracts {
		c := sc.Contract

		ivPct := "-"
		if !math.IsNaN(c.IVPct) {
			ivPct = fmt.Sprintf("%.1f", c.IVPct)
		}

		table.Append([]string{
			strings.ToUpper(string(c.OptionType)),
			fmt.Sprintf("$%s", p.Sprintf("%.2f", c.Strike)),
			c.Expiration.Format("2006-01-02"),
			fmt.Sprintf("%d", c.DaysToExpiration),
			fmt.Sprintf("$%s", p.Sprintf("%.2f", c.Premium)),
			ivPct,
			fmt.Sprintf("%.1f", sc.Scores.TotalScore),
			sc.Scores.Grade,
		})
	}

	table.Render()
	return display.String()
}

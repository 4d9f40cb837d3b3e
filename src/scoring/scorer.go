package scoring

import (
	"math"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/options-edge/src/models"
)

// Weights combines the sub-scores into a total. They were tuned together
// with the heuristics in the risk package; changing one without the other
// shifts every grade boundary.
type Weights struct {
	IVRank      float64
	Liquidity   float64
	DTE         float64
	Premium     float64
	VolumeSurge float64
	Trend       float64
}

func NewDefaultWeights() Weights {
	return Weights{
		IVRank:      0.25,
		Liquidity:   0.20,
		DTE:         0.15,
		Premium:     0.15,
		VolumeSurge: 0.15,
		Trend:       0.10,
	}
}

// Scorer grades contracts for option buyers: cheap IV, demonstrated
// liquidity, a DTE sweet spot and an affordable premium all score high.
type Scorer struct {
	weights Weights
}

func NewScorer() *Scorer {
	return &Scorer{weights: NewDefaultWeights()}
}

// ScoreContract computes the five sub-scores plus the neutral trend
// placeholder and combines them into a graded total.
func (s *Scorer) ScoreContract(contract models.OptionContract, snapshot models.MarketSnapshot) models.ScoreResult {
	result := models.ScoreResult{
		IVRankScore:      scoreIVRank(snapshot),
		LiquidityScore:   scoreLiquidity(&contract),
		DTEScore:         scoreDTE(contract.DaysToExpiration),
		PremiumScore:     scorePremium(contract.Premium),
		VolumeSurgeScore: scoreVolumeSurge(contract.LiquidityRatio),
		TrendScore:       50.0,
	}

	result.TotalScore = result.IVRankScore*s.weights.IVRank +
		result.LiquidityScore*s.weights.Liquidity +
		result.DTEScore*s.weights.DTE +
		result.PremiumScore*s.weights.Premium +
		result.VolumeSurgeScore*s.weights.VolumeSurge +
		result.TrendScore*s.weights.Trend

	result.Grade = GradeFor(result.TotalScore)

	return result
}

// ScoreChain scores every contract in the chain and sorts descending by
// total score. The sort is stable, so ties keep their original row order.
func (s *Scorer) ScoreChain(chain *models.OptionChain, snapshot models.MarketSnapshot) models.ScoredContracts {
	contracts := chain.Contracts()
	if len(contracts) == 0 {
		return nil
	}

	scored := make(models.ScoredContracts, 0, len(contracts))
	for _, c := range contracts {
		scored = append(scored, models.ScoredContract{
			Contract: c,
			Scores:   s.ScoreContract(c, snapshot),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Scores.TotalScore > scored[j].Scores.TotalScore
	})

	log.Infof("scored %d contracts", len(scored))

	return scored
}

// TopOpportunities returns the best n scored contracts.
func (s *Scorer) TopOpportunities(chain *models.OptionChain, snapshot models.MarketSnapshot, n int) models.ScoredContracts {
	scored := s.ScoreChain(chain, snapshot)
	if len(scored) > n {
		scored = scored[:n]
	}

	return scored
}

// scoreIVRank prefers a low IV rank: this scorer grades contracts for
// buying, and cheap IV means cheap premium. No volatility data scores
// neutral.
func scoreIVRank(snapshot models.MarketSnapshot) float64 {
	if snapshot.Volatility == nil || snapshot.Volatility.IV == nil {
		return 50.0
	}

	rank := snapshot.Volatility.IV.Rank

	if rank < 30 {
		return 80.0 + (30 - rank)
	} else if rank < 50 {
		return 70.0 - (rank - 30)
	}

	return math.Max(10.0, 50.0-(rank-50)*0.5)
}

// scoreLiquidity enforces a hard floor of 100 volume and 100 open interest,
// then averages the two metrics, each saturating at 10,000 units. A contract
// without reported volume or open interest cannot demonstrate liquidity and
// scores zero.
func scoreLiquidity(c *models.OptionContract) float64 {
	var volume, openInterest int64
	if c.Volume != nil {
		volume = *c.Volume
	}
	if c.OpenInterest != nil {
		openInterest = *c.OpenInterest
	}

	if volume < 100 || openInterest < 100 {
		return 0.0
	}

	volumeScore := math.Min(100, float64(volume)/100)
	openInterestScore := math.Min(100, float64(openInterest)/100)

	return (volumeScore + openInterestScore) / 2
}

// scoreDTE favors the 14-30 day sweet spot; very short expirations bleed
// theta and very long ones carry too much time risk.
func scoreDTE(dte int) float64 {
	switch {
	case dte < 7:
		return 20.0
	case dte <= 14:
		return 90.0
	case dte <= 30:
		return 100.0
	case dte <= 45:
		return 70.0
	default:
		return 40.0
	}
}

// scorePremium favors cheap-but-not-junk contracts.
func scorePremium(premium float64) float64 {
	switch {
	case premium < 20:
		return 30.0
	case premium <= 100:
		return 100.0
	case premium <= 200:
		return 70.0
	default:
		return 30.0
	}
}

// scoreVolumeSurge rewards unusual activity, measured as volume over open
// interest. An undefined ratio falls through to the lowest bucket.
func scoreVolumeSurge(liquidityRatio float64) float64 {
	switch {
	case liquidityRatio > 2:
		return 100.0
	case liquidityRatio > 1:
		return 70.0
	case liquidityRatio > 0.5:
		return 50.0
	default:
		return 30.0
	}
}

// GradeFor maps a total score to a letter grade.
func GradeFor(score float64) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 55:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/options-edge/src/models"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func snapshotWithRank(rank float64) models.MarketSnapshot {
	return models.MarketSnapshot{
		Symbol: "AAPL",
		Quote:  &models.Quote{Symbol: "AAPL", Price: 150},
		Volatility: &models.VolatilitySummary{
			Regime: models.VolatilityRegimeNormal,
			IV: &models.IVMetrics{
				CurrentIV: 30,
				Rank:      rank,
			},
		},
	}
}

func liquidContract(dte int, premium float64) models.OptionContract {
	return models.OptionContract{
		Symbol:           "AAPL260918C00150000",
		UnderlyingSymbol: "AAPL",
		OptionType:       models.Call,
		Strike:           150,
		Expiration:       time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC),
		DaysToExpiration: dte,
		Bid:              premium/100 - 0.05,
		Ask:              premium / 100,
		MidPrice:         premium/100 - 0.025,
		Premium:          premium,
		IVPct:            30,
		Volume:           int64Ptr(500),
		OpenInterest:     int64Ptr(1000),
		LiquidityRatio:   0.5,
	}
}

func TestGradeFor(t *testing.T) {
	assert.Equal(t, "A", GradeFor(90))
	assert.Equal(t, "A", GradeFor(85))
	assert.Equal(t, "B", GradeFor(70))
	assert.Equal(t, "C", GradeFor(60))
	assert.Equal(t, "C", GradeFor(55))
	assert.Equal(t, "D", GradeFor(50))
	assert.Equal(t, "D", GradeFor(40))
	assert.Equal(t, "F", GradeFor(30))
	assert.Equal(t, "F", GradeFor(0))
}

func TestScoreIVRank(t *testing.T) {
	t.Run("missing volatility data scores neutral", func(t *testing.T) {
		assert.Equal(t, 50.0, scoreIVRank(models.MarketSnapshot{}))
		assert.Equal(t, 50.0, scoreIVRank(models.MarketSnapshot{Volatility: &models.VolatilitySummary{}}))
	})

	t.Run("low rank scores best", func(t *testing.T) {
		assert.Equal(t, 100.0, scoreIVRank(snapshotWithRank(10)))
		assert.Equal(t, 60.0, scoreIVRank(snapshotWithRank(40)))
		assert.Equal(t, 35.0, scoreIVRank(snapshotWithRank(80)))
	})

	t.Run("high rank decays toward the floor", func(t *testing.T) {
		assert.Equal(t, 25.0, scoreIVRank(snapshotWithRank(100)))
	})
}

func TestScoreLiquidity(t *testing.T) {
	t.Run("volume below floor scores zero", func(t *testing.T) {
		c := models.OptionContract{
			Volume:       int64Ptr(50),
			OpenInterest: int64Ptr(5000),
		}

		assert.Equal(t, 0.0, scoreLiquidity(&c))
	})

	t.Run("open interest below floor scores zero", func(t *testing.T) {
		c := models.OptionContract{
			Volume:       int64Ptr(5000),
			OpenInterest: int64Ptr(50),
		}

		assert.Equal(t, 0.0, scoreLiquidity(&c))
	})

	t.Run("missing columns score zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scoreLiquidity(&models.OptionContract{}))
	})

	t.Run("averages volume and open interest", func(t *testing.T) {
		c := models.OptionContract{
			Volume:       int64Ptr(500),
			OpenInterest: int64Ptr(1500),
		}

		assert.Equal(t, 10.0, scoreLiquidity(&c))
	})

	t.Run("saturates at 10000 units", func(t *testing.T) {
		c := models.OptionContract{
			Volume:       int64Ptr(50000),
			OpenInterest: int64Ptr(50000),
		}

		assert.Equal(t, 100.0, scoreLiquidity(&c))
	})
}

func TestScoreDTE(t *testing.T) {
	assert.Equal(t, 20.0, scoreDTE(3))
	assert.Equal(t, 90.0, scoreDTE(10))
	assert.Equal(t, 100.0, scoreDTE(21))
	assert.Equal(t, 70.0, scoreDTE(40))
	assert.Equal(t, 40.0, scoreDTE(90))
}

func TestScorePremium(t *testing.T) {
	assert.Equal(t, 30.0, scorePremium(10))
	assert.Equal(t, 100.0, scorePremium(75))
	assert.Equal(t, 70.0, scorePremium(150))
	assert.Equal(t, 30.0, scorePremium(500))
}

func TestScoreVolumeSurge(t *testing.T) {
	assert.Equal(t, 100.0, scoreVolumeSurge(2.5))
	assert.Equal(t, 70.0, scoreVolumeSurge(1.5))
	assert.Equal(t, 50.0, scoreVolumeSurge(0.75))
	assert.Equal(t, 30.0, scoreVolumeSurge(0.2))
	assert.Equal(t, 30.0, scoreVolumeSurge(math.NaN()))
}

func TestScoreContract(t *testing.T) {
	scorer := NewScorer()

	t.Run("weights sum the sub-scores", func(t *testing.T) {
		result := scorer.ScoreContract(liquidContract(21, 75), snapshotWithRank(10))

		w := NewDefaultWeights()
		expected := result.IVRankScore*w.IVRank +
			result.LiquidityScore*w.Liquidity +
			result.DTEScore*w.DTE +
			result.PremiumScore*w.Premium +
			result.VolumeSurgeScore*w.VolumeSurge +
			result.TrendScore*w.Trend

		assert.InDelta(t, expected, result.TotalScore, 1e-9)
		assert.Equal(t, GradeFor(result.TotalScore), result.Grade)
	})

	t.Run("trend score is a neutral placeholder", func(t *testing.T) {
		result := scorer.ScoreContract(liquidContract(21, 75), snapshotWithRank(10))
		assert.Equal(t, 50.0, result.TrendScore)
	})

	t.Run("cheap iv beats expensive iv", func(t *testing.T) {
		contract := liquidContract(21, 75)

		cheap := scorer.ScoreContract(contract, snapshotWithRank(10))
		expensive := scorer.ScoreContract(contract, snapshotWithRank(90))

		assert.Greater(t, cheap.TotalScore, expensive.TotalScore)
	})
}

func TestScoreChain(t *testing.T) {
	scorer := NewScorer()
	snapshot := snapshotWithRank(20)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	rows := []*models.RawContractRowDTO{
		{Strike: "150", Bid: "0.70", Ask: "0.80", Volume: "500", OpenInterest: "1000", Expiration: "2026-09-22", OptionType: "call"},
		{Strike: "155", Bid: "0.30", Ask: "0.40", Volume: "50", OpenInterest: "80", Expiration: "2026-09-22", OptionType: "call"},
		{Strike: "160", Bid: "0.10", Ask: "0.15", Volume: "2000", OpenInterest: "3000", Expiration: "2026-10-30", OptionType: "call"},
	}

	chain, err := models.NewOptionChain(rows, now)
	require.NoError(t, err)

	t.Run("sorted descending by total score", func(t *testing.T) {
		scored := scorer.ScoreChain(chain, snapshot)
		require.Len(t, scored, 3)

		for i := 1; i < len(scored); i++ {
			assert.GreaterOrEqual(t, scored[i-1].Scores.TotalScore, scored[i].Scores.TotalScore)
		}
	})

	t.Run("empty chain scores nil", func(t *testing.T) {
		assert.Nil(t, scorer.ScoreChain(chain.Empty(), snapshot))
	})

	t.Run("top opportunities truncates", func(t *testing.T) {
		top := scorer.TopOpportunities(chain, snapshot, 2)
		require.Len(t, top, 2)

		all := scorer.ScoreChain(chain, snapshot)
		assert.Equal(t, all[0], top[0])
		assert.Equal(t, all[1], top[1])
	})
}

package elo_test

import (
	"elorank/internal/elo"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedScoreIsSymmetric(t *testing.T) {
	ratings := []float64{1, 100, 800, 1199.5, 1200, 1600, 2000, 2400, 2850, 4000}
	for _, a := range ratings {
		for _, b := range ratings {
			sum := elo.ExpectedScore(a, b) + elo.ExpectedScore(b, a)
			assert.InDelta(t, 1.0, sum, 1e-9, "a=%v b=%v", a, b)
		}
	}
}

func TestExpectedScoreBounds(t *testing.T) {
	assert.InDelta(t, 0.5, elo.ExpectedScore(1500, 1500), 1e-12)
	assert.InDelta(t, 0.759747, elo.ExpectedScore(1400, 1200), 1e-6)
	assert.InDelta(t, 0.909091, elo.ExpectedScore(1600, 1200), 1e-6)

	for _, diff := range []float64{-3000, -400, 0, 400, 3000} {
		e := elo.ExpectedScore(1200+diff, 1200)
		assert.True(t, e > 0 && e < 1, "diff %v gave %v", diff, e)
	}
}

func TestWinBetweenNewcomers(t *testing.T) {
	calc := elo.NewCalculator(elo.DefaultConfig())
	base := elo.Record{Rating: elo.DefaultBaseRating}

	winner, loser, err := calc.Win(base, base)
	require.NoError(t, err)

	assert.Equal(t, elo.Record{Rating: 1216, GamesPlayed: 1}, winner.After)
	assert.Equal(t, elo.Record{Rating: 1184, GamesPlayed: 1}, loser.After)
	assert.Equal(t, 16, winner.Delta())
	assert.Equal(t, -16, loser.Delta())
	assert.Equal(t, 32.0, winner.KFactor)
	assert.Equal(t, elo.ScoreWin, winner.Score)
	assert.Equal(t, elo.ScoreLoss, loser.Score)
}

func TestWinIsZeroSumWithEqualKFactors(t *testing.T) {
	calc := elo.NewCalculator(elo.DefaultConfig())

	for _, v := range []struct{ a, b int }{
		{1200, 1200}, {1500, 1500}, {1300, 1700}, {1700, 1300}, {100, 1900},
	} {
		winner, loser, err := calc.Win(elo.Record{Rating: v.a}, elo.Record{Rating: v.b})
		require.NoError(t, err)
		assert.Equal(t, winner.Delta(), -loser.Delta(), "%d vs %d", v.a, v.b)
		assert.GreaterOrEqual(t, winner.Delta(), 0)
		assert.LessOrEqual(t, loser.Delta(), 0)
	}
}

func TestWinAcrossKFactorTiersIsNotZeroSum(t *testing.T) {
	calc := elo.NewCalculator(elo.DefaultConfig())

	winner, loser, err := calc.Win(elo.Record{Rating: 2010}, elo.Record{Rating: 1990})
	require.NoError(t, err)

	assert.Equal(t, 20.0, winner.KFactor)
	assert.Equal(t, 32.0, loser.KFactor)
	assert.Equal(t, 2019, winner.After.Rating)
	assert.Equal(t, 1975, loser.After.Rating)
}

func TestDraw(t *testing.T) {
	calc := elo.NewCalculator(elo.DefaultConfig())

	a, b, err := calc.Draw(elo.Record{Rating: 1200, GamesPlayed: 3}, elo.Record{Rating: 1200})
	require.NoError(t, err)
	assert.Less(t, math.Abs(float64(a.Delta())), 5.0)
	assert.Less(t, math.Abs(float64(b.Delta())), 5.0)
	assert.Equal(t, 4, a.After.GamesPlayed)
	assert.Equal(t, 1, b.After.GamesPlayed)

	high, low, err := calc.Draw(elo.Record{Rating: 1400}, elo.Record{Rating: 1200})
	require.NoError(t, err)
	assert.Equal(t, 1392, high.After.Rating)
	assert.Equal(t, 1208, low.After.Rating)
}

func TestApplyUsesPreUpdateRatings(t *testing.T) {
	calc := elo.NewCalculator(elo.DefaultConfig())
	a := elo.Record{Rating: 1500, GamesPlayed: 10}
	b := elo.Record{Rating: 1300, GamesPlayed: 2}

	ua, ub, err := calc.Apply(a, b, elo.ScoreWin)
	require.NoError(t, err)

	assert.Equal(t, a, ua.Before)
	assert.Equal(t, b, ub.Before)
	assert.InDelta(t, 1.0, ua.Expected+ub.Expected, 1e-9)
}

func TestApplyDoesNotClamp(t *testing.T) {
	calc := elo.NewCalculator(elo.Config{BaseRating: 1200, KFactor: elo.Fixed(5000)})

	_, loser, err := calc.Win(elo.Record{Rating: 1200}, elo.Record{Rating: 1200})
	require.NoError(t, err)
	assert.Equal(t, -1300, loser.After.Rating)

	var verr *elo.ValidationError
	require.True(t, errors.As(elo.ValidateRecord(loser.After), &verr))
	assert.Equal(t, "Validation failed: Rating must be greater than 0", verr.Error())
}

func TestApplyPropagatesPolicyErrors(t *testing.T) {
	calc := elo.NewCalculator(elo.Config{BaseRating: 1200})

	_, _, err := calc.Win(elo.Record{Rating: 1200}, elo.Record{Rating: 1200})
	assert.ErrorIs(t, err, elo.ErrInvalidKFactorPolicy)
}

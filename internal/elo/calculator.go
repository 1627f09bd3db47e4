package elo

import "math"

// Actual scores of a match from the point of view of one side.
const (
	ScoreLoss = 0.0
	ScoreDraw = 0.5
	ScoreWin  = 1.0
)

// Record is the part of a rating record the calculator reads and writes.
type Record struct {
	Rating      int
	GamesPlayed int
}

// Update is the outcome of a pairwise application for one side.
type Update struct {
	Before, After Record
	KFactor       float64
	Expected      float64
	Score         float64
}

// Delta is the rating change of the update.
func (u Update) Delta() int {
	return u.After.Rating - u.Before.Rating
}

// ExpectedScore is the probability for a competitor rated a to beat one
// rated b.
func ExpectedScore(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (b-a)/400.0))
}

type Calculator struct {
	config Config
}

func NewCalculator(config Config) Calculator {
	return Calculator{config: config}
}

func (c Calculator) Config() Config {
	return c.config
}

// Win computes both records after winner beat loser.
func (c Calculator) Win(winner, loser Record) (Update, Update, error) {
	return c.Apply(winner, loser, ScoreWin)
}

// Draw computes both records after a and b drew.
func (c Calculator) Draw(a, b Record) (Update, Update, error) {
	return c.Apply(a, b, ScoreDraw)
}

// Apply computes both records for a match where a scored scoreA and b scored
// 1-scoreA. Both sides are computed from the records as given: neither side
// sees the other's new rating.
// The result is not validated, a rating can reach zero or below with
// extreme K-factors, it is up to the storage to refuse it.
func (c Calculator) Apply(a, b Record, scoreA float64) (Update, Update, error) {
	kA, err := c.config.KFactorFor(a.Rating)
	if err != nil {
		return Update{}, Update{}, err
	}
	kB, err := c.config.KFactorFor(b.Rating)
	if err != nil {
		return Update{}, Update{}, err
	}

	expectedA := ExpectedScore(float64(a.Rating), float64(b.Rating))
	expectedB := ExpectedScore(float64(b.Rating), float64(a.Rating))
	scoreB := 1 - scoreA

	return update(a, kA, expectedA, scoreA), update(b, kB, expectedB, scoreB), nil
}

func update(r Record, k, expected, score float64) Update {
	return Update{
		Before: r,
		After: Record{
			Rating:      int(math.Round(float64(r.Rating) + k*(score-expected))),
			GamesPlayed: r.GamesPlayed + 1,
		},
		KFactor:  k,
		Expected: expected,
		Score:    score,
	}
}

package back

import (
	"elorank/internal/elo"
	"elorank/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Outcome int

const ( // this is stored in DB, don't change values
	OutcomeLoss Outcome = -1
	OutcomeDraw Outcome = 0
	OutcomeWin  Outcome = 1
)

func outcomeFromScore(score float64) Outcome {
	switch {
	case score > elo.ScoreDraw:
		return OutcomeWin
	case score < elo.ScoreDraw:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	default:
		return "draw"
	}
}

// EloRankingHistory is a single rating change of an EloRanking.
type EloRankingHistory struct {
	ID                util.UUIDAsBlob
	EloRankingID      util.UUIDAsBlob
	OpponentRankingID util.UUIDAsBlob
	CreatedAt         util.TimeAsTimestamp
	Outcome           Outcome
	RatingBefore      int
	RatingAfter       int
	KFactor           float64
}

func newEloRankingHistory(
	rankingID, opponentID util.UUIDAsBlob,
	u elo.Update,
	now util.TimeAsTimestamp,
) EloRankingHistory {
	return EloRankingHistory{
		ID:                util.NewUUIDAsBlob(),
		EloRankingID:      rankingID,
		OpponentRankingID: opponentID,
		CreatedAt:         now,
		Outcome:           outcomeFromScore(u.Score),
		RatingBefore:      u.Before.Rating,
		RatingAfter:       u.After.Rating,
		KFactor:           u.KFactor,
	}
}

func (h EloRankingHistory) Delta() int {
	return h.RatingAfter - h.RatingBefore
}

func (h *EloRankingHistory) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("EloRankingHistory").SetMap(squirrel.Eq{
		"ID":                h.ID,
		"EloRankingID":      h.EloRankingID,
		"OpponentRankingID": h.OpponentRankingID,
		"CreatedAt":         h.CreatedAt,
		"Outcome":           h.Outcome,
		"RatingBefore":      h.RatingBefore,
		"RatingAfter":       h.RatingAfter,
		"KFactor":           h.KFactor,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getEloRankingHistory(tx *sqlx.Tx, rankingID util.UUIDAsBlob) ([]EloRankingHistory, error) {
	var ret []EloRankingHistory
	if err := tx.Select(&ret, `
        SELECT * FROM EloRankingHistory
        WHERE EloRankingID = ?
        ORDER BY CreatedAt ASC, rowid ASC`,
		rankingID,
	); err != nil {
		return nil, err
	}

	return ret, nil
}

// RatingHistory returns every rating change of e, oldest first.
func (b *Back) RatingHistory(e Rankable) ([]EloRankingHistory, error) {
	ranking, err := b.EloRanking(e)
	if err != nil {
		return nil, err
	}

	b.slotMu.Lock()
	id := ranking.ID
	b.slotMu.Unlock()

	var ret []EloRankingHistory
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		ret, err = getEloRankingHistory(tx, id)
		return err
	}); err != nil {
		return nil, err
	}

	return ret, nil
}

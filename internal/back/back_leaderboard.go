package back

import (
	"elorank/internal/util"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// DefaultTopRatedLimit is the number of entries TopRated returns when not
// given a positive limit.
const DefaultTopRatedLimit = 10

type LeaderboardEntry struct {
	RankableType string
	RankableID   util.UUIDAsBlob
	Name         string
	Rating       int
	GamesPlayed  int
}

// ByRating lists every ranked entity of the given type, best first.
func (b *Back) ByRating(rankableType string) ([]LeaderboardEntry, error) {
	return b.getLeaderboard(rankableType, 0)
}

// TopRated lists the limit best ranked entities of the given type.
func (b *Back) TopRated(rankableType string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultTopRatedLimit
	}

	return b.getLeaderboard(rankableType, uint64(limit))
}

func (b *Back) getLeaderboard(rankableType string, limit uint64) (out []LeaderboardEntry, _ error) {
	if err := checkRankableType(rankableType); err != nil {
		return nil, err
	}

	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		out, err = getLeaderboard(tx, rankableType, limit)
		return err
	}); err != nil {
		return nil, err
	}

	return out, nil
}

func getLeaderboard(tx *sqlx.Tx, rankableType string, limit uint64) ([]LeaderboardEntry, error) {
	builder := squirrel.Select(
		"EloRanking.RankableType AS RankableType",
		"EloRanking.RankableID AS RankableID",
		rankableType+".Name AS Name",
		"EloRanking.Rating AS Rating",
		"EloRanking.GamesPlayed AS GamesPlayed",
	).
		From("EloRanking").
		Join(fmt.Sprintf("%[1]s ON(%[1]s.ID = EloRanking.RankableID)", rankableType)).
		Where(squirrel.Eq{"EloRanking.RankableType": rankableType}).
		OrderBy("EloRanking.Rating DESC", rankableType+".Name ASC")

	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	ret := []LeaderboardEntry{}
	if err := tx.Select(&ret, query, args...); err != nil {
		return nil, err
	}

	return ret, nil
}

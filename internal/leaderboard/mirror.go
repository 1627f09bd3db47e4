// Package leaderboard mirrors ratings to Redis sorted sets so leaderboards
// can be served without touching the rating store.
package leaderboard

import (
	"context"
	"elorank/internal/back"
	"elorank/internal/util"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "elorank:leaderboard:"

// Key is the sorted set holding the ratings of a rankable type.
func Key(rankableType string) string {
	return keyPrefix + rankableType
}

// Mirror keeps one sorted set per rankable type, members are rankable IDs
// scored by rating.
type Mirror struct {
	rdb redis.Cmdable
}

func NewMirror(rdb redis.Cmdable) *Mirror {
	return &Mirror{rdb: rdb}
}

// RatingsUpdated implements back.RatingObserver.
func (m *Mirror) RatingsUpdated(ctx context.Context, rankings []back.EloRanking) error {
	pipe := m.rdb.TxPipeline()
	for _, v := range rankings {
		pipe.ZAdd(ctx, Key(v.RankableType), redis.Z{
			Score:  float64(v.Rating),
			Member: v.RankableID.String(),
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("unable to mirror %d ratings: %w", len(rankings), err)
	}

	return nil
}

// Rebuild replaces the sorted set of a type with the given entries.
func (m *Mirror) Rebuild(ctx context.Context, rankableType string, entries []back.LeaderboardEntry) error {
	key := Key(rankableType)
	pipe := m.rdb.TxPipeline()
	pipe.Del(ctx, key)

	if len(entries) > 0 {
		members := make([]redis.Z, 0, len(entries))
		for _, v := range entries {
			members = append(members, redis.Z{
				Score:  float64(v.Rating),
				Member: v.RankableID.String(),
			})
		}
		pipe.ZAdd(ctx, key, members...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("unable to rebuild %s: %w", key, err)
	}

	log.Printf("info: rebuilt %s with %d entries", key, len(entries))

	return nil
}

type Entry struct {
	RankableID util.UUIDAsBlob
	Rating     int
}

// Top returns the n best rated entries of a type, best first.
func (m *Mirror) Top(ctx context.Context, rankableType string, n int64) ([]Entry, error) {
	if n <= 0 {
		n = back.DefaultTopRatedLimit
	}

	res, err := m.rdb.ZRevRangeWithScores(ctx, Key(rankableType), 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	return parseEntries(res)
}

func parseEntries(res []redis.Z) ([]Entry, error) {
	ret := make([]Entry, 0, len(res))
	for _, v := range res {
		member, ok := v.Member.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected member type %T", v.Member)
		}

		id, err := util.ParseUUIDAsBlob(member)
		if err != nil {
			return nil, fmt.Errorf("invalid member %q: %w", member, err)
		}

		ret = append(ret, Entry{RankableID: id, Rating: int(v.Score)})
	}

	return ret, nil
}

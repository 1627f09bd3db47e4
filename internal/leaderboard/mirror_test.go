package leaderboard // nolint:testpackage

import (
	"context"
	"elorank/internal/back"
	"elorank/internal/util"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "elorank:leaderboard:Player", Key("Player"))
	assert.Equal(t, "elorank:leaderboard:Team", Key("Team"))
}

func TestParseEntries(t *testing.T) {
	id := util.NewUUIDAsBlob()

	entries, err := parseEntries([]redis.Z{{Score: 1216, Member: id.String()}})
	require.NoError(t, err)
	assert.Equal(t, []Entry{{RankableID: id, Rating: 1216}}, entries)

	_, err = parseEntries([]redis.Z{{Score: 1, Member: "nope"}})
	assert.Error(t, err)

	_, err = parseEntries([]redis.Z{{Score: 1, Member: 42}})
	assert.Error(t, err)
}

func TestMirrorReportsUnreachableRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var observer back.RatingObserver = NewMirror(rdb)
	err := observer.RatingsUpdated(ctx, []back.EloRanking{
		back.NewEloRanking("Player", util.NewUUIDAsBlob(), 1200),
	})
	assert.Error(t, err)
}

func createTestMirror(t *testing.T) (*Mirror, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewMirror(rdb), server
}

func TestRatingsUpdated(t *testing.T) {
	mirror, server := createTestMirror(t)
	ctx := context.Background()

	player := back.NewEloRanking("Player", util.NewUUIDAsBlob(), 1216)
	team := back.NewEloRanking("Team", util.NewUUIDAsBlob(), 1184)
	require.NoError(t, mirror.RatingsUpdated(ctx, []back.EloRanking{player, team}))

	score, err := server.ZScore(Key("Player"), player.RankableID.String())
	require.NoError(t, err)
	assert.Equal(t, 1216.0, score)

	score, err = server.ZScore(Key("Team"), team.RankableID.String())
	require.NoError(t, err)
	assert.Equal(t, 1184.0, score)

	// A later update overwrites the score.
	player.Rating = 1230
	require.NoError(t, mirror.RatingsUpdated(ctx, []back.EloRanking{player}))
	score, err = server.ZScore(Key("Player"), player.RankableID.String())
	require.NoError(t, err)
	assert.Equal(t, 1230.0, score)

	members, err := server.ZMembers(Key("Player"))
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestRebuild(t *testing.T) {
	mirror, server := createTestMirror(t)
	ctx := context.Background()

	stale := util.NewUUIDAsBlob()
	_, err := server.ZAdd(Key("Player"), 1500, stale.String())
	require.NoError(t, err)

	entries := []back.LeaderboardEntry{
		{RankableType: "Player", RankableID: util.NewUUIDAsBlob(), Rating: 1216},
		{RankableType: "Player", RankableID: util.NewUUIDAsBlob(), Rating: 1184},
	}
	require.NoError(t, mirror.Rebuild(ctx, "Player", entries))

	members, err := server.ZMembers(Key("Player"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		entries[0].RankableID.String(),
		entries[1].RankableID.String(),
	}, members)

	for _, v := range entries {
		score, err := server.ZScore(Key("Player"), v.RankableID.String())
		require.NoError(t, err)
		assert.Equal(t, float64(v.Rating), score)
	}

	require.NoError(t, mirror.Rebuild(ctx, "Player", nil))
	assert.False(t, server.Exists(Key("Player")))
}

func TestTop(t *testing.T) {
	mirror, _ := createTestMirror(t)
	ctx := context.Background()

	rankings := make([]back.EloRanking, 0, 12)
	for k := 0; k < 12; k++ {
		rankings = append(rankings, back.NewEloRanking("Player", util.NewUUIDAsBlob(), 1000+k*10))
	}
	require.NoError(t, mirror.RatingsUpdated(ctx, rankings))

	top, err := mirror.Top(ctx, "Player", 0)
	require.NoError(t, err)
	require.Len(t, top, back.DefaultTopRatedLimit)
	for k, v := range top {
		expected := rankings[len(rankings)-1-k]
		assert.Equal(t, expected.RankableID, v.RankableID, fmt.Sprintf("entry #%d", k))
		assert.Equal(t, expected.Rating, v.Rating)
	}

	top, err = mirror.Top(ctx, "Player", 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, 1110, top[0].Rating)
	assert.Equal(t, 1090, top[2].Rating)

	top, err = mirror.Top(ctx, "Team", 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

package back // nolint:testpackage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopRated(t *testing.T) {
	back := createTestBack(t)
	names := []string{
		"P00", "P01", "P02", "P03", "P04", "P05",
		"P06", "P07", "P08", "P09", "P10", "P11",
	}
	players := createPlayers(t, back, names...)
	for k, v := range players {
		setRating(t, back, v, 1000+k*10)
	}

	top, err := back.TopRated(playerRankableType, 0)
	require.NoError(t, err)
	require.Len(t, top, DefaultTopRatedLimit)
	assert.Equal(t, "P11", top[0].Name)
	assert.Equal(t, 1110, top[0].Rating)
	assert.Equal(t, "P02", top[len(top)-1].Name)

	top, err = back.TopRated(playerRankableType, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"P11", "P10", "P09"}, []string{top[0].Name, top[1].Name, top[2].Name})

	all, err := back.ByRating(playerRankableType)
	require.NoError(t, err)
	assert.Len(t, all, len(names))
}

func TestLeaderboardSkipsUnrankedAndDestroyed(t *testing.T) {
	back := createTestBack(t)
	players := createPlayers(t, back, "Darunia", "Nabooru", "Rauru")
	require.NoError(t, back.Beat(players[0], players[1]))

	board, err := back.ByRating(playerRankableType)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "Darunia", board[0].Name)
	assert.Equal(t, players[0].ID, board[0].RankableID)
	assert.Equal(t, 1, board[0].GamesPlayed)

	require.NoError(t, back.DestroyPlayer(players[0]))
	board, err = back.ByRating(playerRankableType)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "Nabooru", board[0].Name)

	teams, err := back.ByRating(teamRankableType)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestLeaderboardUnknownType(t *testing.T) {
	back := createTestBack(t)

	_, err := back.TopRated("Player; DROP TABLE Player", 10)
	assert.EqualError(t, err, `unknown rankable type "Player; DROP TABLE Player"`)
}

package main

import (
	"bytes"
	"elorank/internal/back"
	"elorank/internal/util"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLeaderboard(&buf, nil))
	assert.Equal(t, "nobody is ranked yet\n", buf.String())

	buf.Reset()
	require.NoError(t, writeLeaderboard(&buf, []back.LeaderboardEntry{
		{Name: "Impa", Rating: 12016, GamesPlayed: 1200},
		{Name: "Saria", Rating: 1184, GamesPlayed: 1},
	}))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "  1. Impa "))
	assert.Contains(t, lines[0], "12,016")
	assert.Contains(t, lines[0], "(1,200 games)")
	assert.True(t, strings.HasPrefix(lines[1], "  2. Saria "))
	assert.Contains(t, lines[1], "1,184")
}

func TestWriteHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHistory(&buf, nil))
	assert.Equal(t, "no match recorded\n", buf.String())

	at := time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC)
	buf.Reset()
	require.NoError(t, writeHistory(&buf, []back.EloRankingHistory{{
		CreatedAt:    util.TimeAsTimestamp(at),
		Outcome:      back.OutcomeWin,
		RatingBefore: 1200,
		RatingAfter:  1216,
		KFactor:      32,
	}}))
	assert.Contains(t, buf.String(), "win")
	assert.Contains(t, buf.String(), "1,200")
	assert.Contains(t, buf.String(), "1,216")
	assert.Contains(t, buf.String(), "+16")
	assert.Contains(t, buf.String(), "K=32")
}

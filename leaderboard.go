package main

import (
	"context"
	"elorank/internal/back"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultRankableType = "Player"

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

func printLeaderboard(w io.Writer, rankableType, limitStr string) error {
	if rankableType == "" {
		rankableType = defaultRankableType
	}

	var limit int
	if limitStr != "" {
		var err error
		if limit, err = strconv.Atoi(limitStr); err != nil {
			return fmt.Errorf("invalid limit %q: %w", limitStr, err)
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.back.TopRated(rankableType, limit)
	if err != nil {
		return err
	}

	return writeLeaderboard(w, entries)
}

func writeLeaderboard(w io.Writer, entries []back.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "nobody is ranked yet")
		return err
	}

	p := newPrinter()
	for k, v := range entries {
		if _, err := p.Fprintf(
			w, "%3d. %-24s %7d  (%d games)\n",
			k+1, v.Name, v.Rating, v.GamesPlayed,
		); err != nil {
			return err
		}
	}

	return nil
}

// syncLeaderboards rebuilds every Redis leaderboard from the database.
func syncLeaderboards() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.mirror == nil {
		return errors.New("no Redis address configured, set ELORANK_REDIS_ADDR")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, typ := range back.RankableTypes() {
		entries, err := a.back.ByRating(typ)
		if err != nil {
			return err
		}

		if err := a.mirror.Rebuild(ctx, typ, entries); err != nil {
			return err
		}
	}

	return nil
}

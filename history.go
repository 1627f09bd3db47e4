package main

import (
	"elorank/internal/back"
	"fmt"
	"io"
	"time"
)

func printHistory(w io.Writer, rankableType, name string) error {
	if name == "" {
		return fmt.Errorf("usage: history TYPE NAME")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var e back.Rankable
	switch rankableType {
	case "Player":
		e, err = a.back.GetPlayerByName(name)
	case "Team":
		e, err = a.back.GetTeamByName(name)
	default:
		return fmt.Errorf("unknown rankable type %q", rankableType)
	}
	if err != nil {
		return fmt.Errorf("unable to find %s `%s`: %w", rankableType, name, err)
	}

	history, err := a.back.RatingHistory(e)
	if err != nil {
		return err
	}

	return writeHistory(w, history)
}

func writeHistory(w io.Writer, history []back.EloRankingHistory) error {
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "no match recorded")
		return err
	}

	p := newPrinter()
	for _, v := range history {
		if _, err := p.Fprintf(
			w, "%s  %-4s  %6d → %6d  %+5d  K=%g\n",
			v.CreatedAt.Time().Format(time.RFC3339),
			v.Outcome, v.RatingBefore, v.RatingAfter, v.Delta(), v.KFactor,
		); err != nil {
			return err
		}
	}

	return nil
}

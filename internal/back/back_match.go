package back

import (
	"elorank/internal/elo"
	"elorank/internal/util"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
)

// RecordPairwise records winner beating loser.
func (b *Back) RecordPairwise(winner, loser Rankable) error {
	return b.recordPair(winner, loser, elo.ScoreWin)
}

// RecordDraw records a draw between p1 and p2.
func (b *Back) RecordDraw(p1, p2 Rankable) error {
	return b.recordPair(p1, p2, elo.ScoreDraw)
}

// RecordMultiplayerMatch records a match ranked by the order of players:
// every player beat all the players after them.
func (b *Back) RecordMultiplayerMatch(players []Rankable) error {
	if len(players) < 2 {
		return elo.ErrNotEnoughPlayers
	}

	seen := make(map[rankableKey]struct{}, len(players))
	for _, v := range players {
		if isNil(v) {
			return elo.ErrNilPlayer
		}

		key := keyOf(v)
		if _, ok := seen[key]; ok {
			return elo.ErrDuplicatePlayers
		}
		seen[key] = struct{}{}
	}

	rankings, err := b.validateParticipants(players)
	if err != nil {
		return err
	}

	start := time.Now()
	calc := elo.NewCalculator(b.Config())
	for i := range rankings {
		for j := i + 1; j < len(rankings); j++ {
			if err := b.applyPairwise(calc, rankings[i], rankings[j], elo.ScoreWin); err != nil {
				return fmt.Errorf("unable to record player #%d beating player #%d: %w", i, j, err)
			}
		}
	}

	log.Printf(
		"info: recorded a %d players match in %s",
		len(players), time.Since(start),
	)

	return nil
}

// RecordWinnerVsAll records winner beating every loser in turn. A loser
// present more than once plays once per occurrence.
func (b *Back) RecordWinnerVsAll(winner Rankable, losers []Rankable) error {
	if len(losers) == 0 {
		return elo.ErrNoLosers
	}

	if isNil(winner) {
		return elo.ErrNilPlayer
	}

	winnerKey := keyOf(winner)
	for _, v := range losers {
		if isNil(v) {
			return elo.ErrNilPlayer
		}

		if keyOf(v) == winnerKey {
			return elo.ErrWinnerInLosers
		}
	}

	participants := make([]Rankable, 0, len(losers)+1)
	participants = append(participants, winner)
	participants = append(participants, losers...)

	rankings, err := b.validateParticipants(participants)
	if err != nil {
		return err
	}

	calc := elo.NewCalculator(b.Config())
	for k := 1; k < len(rankings); k++ {
		if err := b.applyPairwise(calc, rankings[0], rankings[k], elo.ScoreWin); err != nil {
			return fmt.Errorf("unable to record win against loser #%d: %w", k-1, err)
		}
	}

	return nil
}

// Beat records e beating other.
func (b *Back) Beat(e, other Rankable) error {
	if err := validateOpponent(e, other); err != nil {
		return err
	}

	return b.RecordPairwise(e, other)
}

// LostTo records other beating e.
func (b *Back) LostTo(e, other Rankable) error {
	if err := validateOpponent(e, other); err != nil {
		return err
	}

	return b.RecordPairwise(other, e)
}

// DrawWith records a draw between e and other.
func (b *Back) DrawWith(e, other Rankable) error {
	if err := validateOpponent(e, other); err != nil {
		return err
	}

	return b.RecordDraw(e, other)
}

func validateOpponent(e, other Rankable) error {
	if isNil(e) {
		return elo.ErrNilPlayer
	}

	if isNil(other) {
		return elo.ErrNilOpponent
	}

	if keyOf(e) == keyOf(other) {
		return elo.ErrSelfMatch
	}

	if other.RankingSlot() == nil {
		return elo.ErrOpponentNoRanking
	}

	return nil
}

func (b *Back) recordPair(p1, p2 Rankable, scoreP1 float64) error {
	if isNil(p1) || isNil(p2) {
		return elo.ErrNilPlayer
	}

	if keyOf(p1) == keyOf(p2) {
		return elo.ErrSelfMatch
	}

	rankings, err := b.validateParticipants([]Rankable{p1, p2})
	if err != nil {
		return err
	}

	return b.applyPairwise(elo.NewCalculator(b.Config()), rankings[0], rankings[1], scoreP1)
}

// validateParticipants checks every participant can be rated and returns
// their rankings in the same order. Nothing is rated until all of them pass.
func (b *Back) validateParticipants(participants []Rankable) ([]*EloRanking, error) {
	ret := make([]*EloRanking, 0, len(participants))
	for _, v := range participants {
		ranking, err := b.validateParticipant(v)
		if err != nil {
			return nil, err
		}
		ret = append(ret, ranking)
	}

	if err := b.checkStored(ret); err != nil {
		return nil, err
	}

	return ret, nil
}

// checkStored makes sure every ranking still has its row, the owner may have
// been destroyed through another handle since the ranking was cached.
func (b *Back) checkStored(rankings []*EloRanking) error {
	ids := make([]util.UUIDAsBlob, len(rankings))
	b.slotMu.Lock()
	for k, v := range rankings {
		ids[k] = v.ID
	}
	b.slotMu.Unlock()

	missing := -1
	if err := b.transaction(func(tx *sqlx.Tx) error {
		for k, id := range ids {
			if _, err := getEloRankingByID(tx, id); err != nil {
				if errors.Is(err, elo.ErrRankingNotPersisted) {
					missing = k
				}
				return err
			}
		}

		return nil
	}); err != nil {
		if missing >= 0 {
			b.slotMu.Lock()
			rankings[missing].persisted = false
			b.slotMu.Unlock()
		}
		return err
	}

	return nil
}

func (b *Back) validateParticipant(e Rankable) (*EloRanking, error) {
	if isNil(e) {
		return nil, elo.ErrNilPlayer
	}

	if e.RankingSlot() == nil {
		return nil, elo.ErrNoRankingSlot
	}

	if e.Destroyed() {
		return nil, elo.ErrPlayerDestroyed
	}

	ranking, err := b.EloRanking(e)
	if err != nil {
		return nil, err
	}

	if ranking == nil {
		return nil, elo.ErrRankingMissing
	}

	b.slotMu.Lock()
	defer b.slotMu.Unlock()
	if !ranking.persisted {
		return nil, elo.ErrRankingNotPersisted
	}

	return ranking, nil
}

// applyPairwise reads both rankings, computes their new values from that
// snapshot and writes both back in a single transaction. The cached rankings
// are refreshed once committed.
func (b *Back) applyPairwise(calc elo.Calculator, r1, r2 *EloRanking, scoreR1 float64) error {
	var (
		updated1, updated2 EloRanking
		before1, before2   int
		missing            *EloRanking
	)

	b.slotMu.Lock()
	id1, id2 := r1.ID, r2.ID
	b.slotMu.Unlock()

	if err := b.transaction(func(tx *sqlx.Tx) error {
		cur1, err := getEloRankingByID(tx, id1)
		if err != nil {
			missing = r1
			return err
		}
		cur2, err := getEloRankingByID(tx, id2)
		if err != nil {
			missing = r2
			return err
		}

		u1, u2, err := calc.Apply(cur1.Record(), cur2.Record(), scoreR1)
		if err != nil {
			return err
		}

		before1, before2 = cur1.Rating, cur2.Rating
		now := util.NowAsTimestamp()
		updated1 = cur1.withUpdate(u1, now)
		updated2 = cur2.withUpdate(u2, now)

		if err := updated1.update(tx); err != nil {
			return err
		}
		if err := updated2.update(tx); err != nil {
			return err
		}

		h1 := newEloRankingHistory(cur1.ID, cur2.ID, u1, now)
		h2 := newEloRankingHistory(cur2.ID, cur1.ID, u2, now)
		if err := h1.insert(tx); err != nil {
			return err
		}

		return h2.insert(tx)
	}); err != nil {
		if missing != nil && errors.Is(err, elo.ErrRankingNotPersisted) {
			b.slotMu.Lock()
			missing.persisted = false
			b.slotMu.Unlock()
		}
		return err
	}

	b.slotMu.Lock()
	*r1 = updated1
	*r2 = updated2
	b.slotMu.Unlock()

	log.Printf(
		"debug: %s %s %d→%d, %s %s %d→%d",
		updated1.RankableType, updated1.RankableID, before1, updated1.Rating,
		updated2.RankableType, updated2.RankableID, before2, updated2.Rating,
	)

	b.notify([]EloRanking{updated1, updated2})

	return nil
}

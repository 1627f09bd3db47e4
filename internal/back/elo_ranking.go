package back

import (
	"database/sql"
	"elorank/internal/elo"
	"elorank/internal/util"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// EloRanking is the rating record of a single Rankable.
type EloRanking struct {
	ID           util.UUIDAsBlob
	RankableType string
	RankableID   util.UUIDAsBlob
	CreatedAt    util.TimeAsTimestamp
	UpdatedAt    util.TimeAsTimestamp
	LastPlayedAt util.NullTimeAsTimestamp

	Rating      int
	GamesPlayed int

	persisted bool
}

func NewEloRanking(rankableType string, rankableID util.UUIDAsBlob, baseRating int) EloRanking {
	now := util.NowAsTimestamp()

	return EloRanking{
		ID:           util.NewUUIDAsBlob(),
		RankableType: rankableType,
		RankableID:   rankableID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Rating:       baseRating,
	}
}

// Persisted is false for a ranking that was never stored or whose owner was
// destroyed.
func (r *EloRanking) Persisted() bool {
	return r.persisted
}

func (r EloRanking) Record() elo.Record {
	return elo.Record{
		Rating:      r.Rating,
		GamesPlayed: r.GamesPlayed,
	}
}

// withUpdate returns a copy of r holding the outcome of u.
func (r EloRanking) withUpdate(u elo.Update, now util.TimeAsTimestamp) EloRanking {
	r.Rating = u.After.Rating
	r.GamesPlayed = u.After.GamesPlayed
	r.UpdatedAt = now
	r.LastPlayedAt = util.NewNullTimeAsTimestamp(now)

	return r
}

// insertIfMissing stores r unless its owner already has a ranking.
func (r *EloRanking) insertIfMissing(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("EloRanking").SetMap(squirrel.Eq{
		"ID":           r.ID,
		"RankableType": r.RankableType,
		"RankableID":   r.RankableID,
		"CreatedAt":    r.CreatedAt,
		"UpdatedAt":    r.UpdatedAt,
		"LastPlayedAt": r.LastPlayedAt,
		"Rating":       r.Rating,
		"GamesPlayed":  r.GamesPlayed,
	}).Suffix(`ON CONFLICT("RankableType", "RankableID") DO NOTHING`).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return asValidationError(err)
	}

	return nil
}

func (r *EloRanking) update(tx *sqlx.Tx) error {
	if err := elo.ValidateRecord(r.Record()); err != nil {
		return err
	}

	query, args, err := squirrel.Update("EloRanking").SetMap(squirrel.Eq{
		"UpdatedAt":    r.UpdatedAt,
		"LastPlayedAt": r.LastPlayedAt,
		"Rating":       r.Rating,
		"GamesPlayed":  r.GamesPlayed,
	}).Where("EloRanking.ID = ?", r.ID).ToSql()
	if err != nil {
		return err
	}

	res, err := tx.Exec(query, args...)
	if err != nil {
		return asValidationError(err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n != 1 {
		return elo.ErrRankingNotPersisted
	}

	return nil
}

// asValidationError translates constraint violations reported by SQLite
// to the error the rest of the code expects for invalid records.
func asValidationError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return &elo.ValidationError{Field: "EloRanking", Reason: sqliteErr.Error()}
	}

	return err
}

func getEloRanking(tx *sqlx.Tx, rankableType string, rankableID util.UUIDAsBlob) (EloRanking, error) {
	var ret EloRanking
	query := `SELECT * FROM EloRanking WHERE RankableType = ? AND RankableID = ? LIMIT 1`
	if err := tx.Get(&ret, query, rankableType, rankableID); err != nil {
		return EloRanking{}, err
	}
	ret.persisted = true

	return ret, nil
}

func getEloRankingByID(tx *sqlx.Tx, id util.UUIDAsBlob) (EloRanking, error) {
	var ret EloRanking
	query := `SELECT * FROM EloRanking WHERE ID = ? LIMIT 1`
	if err := tx.Get(&ret, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EloRanking{}, elo.ErrRankingNotPersisted
		}
		return EloRanking{}, err
	}
	ret.persisted = true

	return ret, nil
}

// getOrCreateEloRanking returns the ranking of e, creating it with the base
// rating if it does not exist yet. Concurrent creations for the same owner
// converge on the first row inserted.
func getOrCreateEloRanking(tx *sqlx.Tx, e Rankable, baseRating int) (EloRanking, error) {
	typ, id := e.RankableType(), e.RankableID()

	exists, err := ownerExists(tx, typ, id)
	if err != nil {
		return EloRanking{}, err
	}
	if !exists {
		return EloRanking{}, elo.ErrPlayerNotSaved
	}

	ranking, err := getEloRanking(tx, typ, id)
	if err == nil {
		return ranking, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return EloRanking{}, err
	}

	fresh := NewEloRanking(typ, id, baseRating)
	if err := elo.ValidateRecord(fresh.Record()); err != nil {
		return EloRanking{}, err
	}
	if err := fresh.insertIfMissing(tx); err != nil {
		return EloRanking{}, fmt.Errorf("unable to create ranking: %w", err)
	}

	return getEloRanking(tx, typ, id)
}

// EloRanking returns the ranking of e, creating it on first access.
// The ranking is cached on the handle: every call with the same handle
// returns the same pointer.
func (b *Back) EloRanking(e Rankable) (*EloRanking, error) {
	if isNil(e) {
		return nil, elo.ErrNilPlayer
	}

	slot := e.RankingSlot()
	if slot == nil {
		return nil, elo.ErrNoRankingSlot
	}

	b.slotMu.Lock()
	defer b.slotMu.Unlock()

	if slot.ranking != nil {
		return slot.ranking, nil
	}

	if e.Destroyed() {
		return nil, elo.ErrPlayerDestroyed
	}

	baseRating := b.Config().BaseRating

	var ranking EloRanking
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		ranking, err = getOrCreateEloRanking(tx, e, baseRating)
		return err
	}); err != nil {
		return nil, err
	}

	slot.ranking = &ranking

	return slot.ranking, nil
}

// EloRating is the current rating of e.
func (b *Back) EloRating(e Rankable) (int, error) {
	ranking, err := b.EloRanking(e)
	if err != nil {
		return 0, err
	}

	b.slotMu.Lock()
	defer b.slotMu.Unlock()

	return ranking.Rating, nil
}

// GamesPlayed is the number of pairwise games e took part in.
func (b *Back) GamesPlayed(e Rankable) (int, error) {
	ranking, err := b.EloRanking(e)
	if err != nil {
		return 0, err
	}

	b.slotMu.Lock()
	defer b.slotMu.Unlock()

	return ranking.GamesPlayed, nil
}

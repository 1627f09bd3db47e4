package back

import (
	"elorank/internal/elo"
	"elorank/internal/util"
	"fmt"
	"reflect"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// A Rankable is an entity that can hold an EloRanking.
// Two Rankable are the same entity when their type and ID match.
type Rankable interface {
	RankableType() string
	RankableID() util.UUIDAsBlob
	Destroyed() bool
	RankingSlot() *RankingSlot
}

// RankingSlot caches the EloRanking loaded for an entity handle so repeated
// access returns the same record. It is only read or written by the Back.
type RankingSlot struct {
	ranking *EloRanking
}

// rankingState is embedded by every Rankable of this package.
type rankingState struct {
	slot      RankingSlot
	destroyed bool
}

func (s *rankingState) RankingSlot() *RankingSlot {
	return &s.slot
}

func (s *rankingState) Destroyed() bool {
	return s.destroyed
}

// rankableTypes are the RankableType values backed by a table of the same
// name, the names are used as-is in queries.
var rankableTypes = map[string]struct{}{ // nolint:gochecknoglobals
	playerRankableType: {},
	teamRankableType:   {},
}

// RankableTypes lists the known RankableType values, sorted.
func RankableTypes() []string {
	ret := make([]string, 0, len(rankableTypes))
	for k := range rankableTypes {
		ret = append(ret, k)
	}
	sort.Strings(ret)

	return ret
}

func checkRankableType(typ string) error {
	if _, ok := rankableTypes[typ]; !ok {
		return util.ErrPublic(fmt.Sprintf("unknown rankable type %q", typ))
	}

	return nil
}

type rankableKey struct {
	typ string
	id  util.UUIDAsBlob
}

func keyOf(e Rankable) rankableKey {
	return rankableKey{typ: e.RankableType(), id: e.RankableID()}
}

// isNil catches both nil interfaces and interfaces holding a nil pointer.
func isNil(e Rankable) bool {
	if e == nil {
		return true
	}

	v := reflect.ValueOf(e)
	switch v.Kind() { // nolint:exhaustive
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func ownerExists(tx *sqlx.Tx, typ string, id util.UUIDAsBlob) (bool, error) {
	if err := checkRankableType(typ); err != nil {
		return false, err
	}

	query, args, err := squirrel.Select("COUNT(*)").
		From(typ).
		Where(squirrel.Eq{"ID": id}).
		ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := tx.Get(&count, query, args...); err != nil {
		return false, err
	}

	return count > 0, nil
}

func deleteOwner(tx *sqlx.Tx, e Rankable) error {
	typ := e.RankableType()
	if err := checkRankableType(typ); err != nil {
		return err
	}

	query, args, err := squirrel.Delete(typ).Where(squirrel.Eq{"ID": e.RankableID()}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

// destroy deletes the entity, its ranking and history go with it.
// The handle is flagged as destroyed and its cached ranking as transient.
func (b *Back) destroy(e Rankable) error {
	if isNil(e) {
		return elo.ErrNilPlayer
	}

	if err := b.transaction(func(tx *sqlx.Tx) error {
		return deleteOwner(tx, e)
	}); err != nil {
		return err
	}

	b.slotMu.Lock()
	defer b.slotMu.Unlock()

	if state, ok := e.(interface{ markDestroyed() }); ok {
		state.markDestroyed()
	}
	if slot := e.RankingSlot(); slot != nil && slot.ranking != nil {
		slot.ranking.persisted = false
	}

	return nil
}

func (s *rankingState) markDestroyed() {
	s.destroyed = true
}

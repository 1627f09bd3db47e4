package back

import (
	"elorank/internal/util"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const teamRankableType = "Team"

// A Team competes as a single entity, it has its own ranking independent
// from the players composing it.
type Team struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp
	Name      string

	rankingState
}

func NewTeam(name string) *Team {
	return &Team{
		ID:        util.NewUUIDAsBlob(),
		CreatedAt: util.NowAsTimestamp(),
		Name:      name,
	}
}

func (t *Team) RankableType() string {
	return teamRankableType
}

func (t *Team) RankableID() util.UUIDAsBlob {
	return t.ID
}

func (t *Team) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Team").SetMap(squirrel.Eq{
		"ID":        t.ID,
		"CreatedAt": t.CreatedAt,
		"Name":      t.Name,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (b *Back) CreateTeam(name string) (*Team, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	team := NewTeam(name)
	if err := b.transaction(func(tx *sqlx.Tx) error {
		if _, err := getTeamByName(tx, name); err == nil {
			return util.ErrPublic(fmt.Sprintf("the team name `%s` is taken already", name))
		}

		return team.insert(tx)
	}); err != nil {
		return nil, err
	}

	return team, nil
}

// DestroyTeam deletes t along with its ranking.
func (b *Back) DestroyTeam(t *Team) error {
	return b.destroy(t)
}

func (b *Back) GetTeamByName(name string) (team *Team, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		team, err = getTeamByName(tx, name)
		return err
	}); err != nil {
		return nil, err
	}

	return team, nil
}

func getTeamByName(tx *sqlx.Tx, name string) (*Team, error) {
	var ret Team
	query := `SELECT * FROM Team WHERE Team.Name = ? LIMIT 1`
	if err := tx.Get(&ret, query, name); err != nil {
		return nil, err
	}

	return &ret, nil
}

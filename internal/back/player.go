package back

import (
	"elorank/internal/util"
	"fmt"
	"unicode/utf8"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

const playerRankableType = "Player"

// A Player is a single competitor.
type Player struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp
	Name      string

	// ExternalID identifies the player in another system, eg. a chat
	// platform user ID.
	ExternalID null.String

	rankingState
}

func NewPlayer(name string) *Player {
	return &Player{
		ID:        util.NewUUIDAsBlob(),
		CreatedAt: util.NowAsTimestamp(),
		Name:      name,
	}
}

func (p *Player) RankableType() string {
	return playerRankableType
}

func (p *Player) RankableID() util.UUIDAsBlob {
	return p.ID
}

func (p *Player) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Player").SetMap(squirrel.Eq{
		"ID":         p.ID,
		"CreatedAt":  p.CreatedAt,
		"Name":       p.Name,
		"ExternalID": p.ExternalID,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (p *Player) update(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("Player").SetMap(squirrel.Eq{
		"Name":       p.Name,
		"ExternalID": p.ExternalID,
	}).Where("Player.ID = ?", p.ID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > 64 {
		return util.ErrPublic("names must be between 1 and 64 characters")
	}

	return nil
}

// CreatePlayer stores a new player, externalID is optional.
func (b *Back) CreatePlayer(name string, externalID string) (*Player, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	player := NewPlayer(name)
	player.ExternalID = null.NewString(externalID, externalID != "")

	if err := b.transaction(func(tx *sqlx.Tx) error {
		if _, err := getPlayerByName(tx, name); err == nil {
			return util.ErrPublic(fmt.Sprintf("the name `%s` is taken already", name))
		}

		if externalID != "" {
			if _, err := getPlayerByExternalID(tx, externalID); err == nil {
				return util.ErrPublic("this external ID is already registered")
			}
		}

		return player.insert(tx)
	}); err != nil {
		return nil, err
	}

	return player, nil
}

func (b *Back) RenamePlayer(p *Player, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	if p.Name == name {
		return util.ErrPublic("that's the name already")
	}

	renamed := *p
	renamed.Name = name
	if err := b.transaction(func(tx *sqlx.Tx) error {
		if _, err := getPlayerByName(tx, name); err == nil {
			return util.ErrPublic("this name is taken already")
		}

		return renamed.update(tx)
	}); err != nil {
		return err
	}

	p.Name = name

	return nil
}

// DestroyPlayer deletes p along with its ranking.
func (b *Back) DestroyPlayer(p *Player) error {
	return b.destroy(p)
}

func (b *Back) GetPlayerByName(name string) (player *Player, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		player, err = getPlayerByName(tx, name)
		return err
	}); err != nil {
		return nil, err
	}

	return player, nil
}

func (b *Back) GetPlayerByExternalID(externalID string) (player *Player, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		player, err = getPlayerByExternalID(tx, externalID)
		return err
	}); err != nil {
		return nil, err
	}

	return player, nil
}

func getPlayerByName(tx *sqlx.Tx, name string) (*Player, error) {
	var ret Player
	query := `SELECT * FROM Player WHERE Player.Name = ? LIMIT 1`
	if err := tx.Get(&ret, query, name); err != nil {
		return nil, err
	}

	return &ret, nil
}

func getPlayerByExternalID(tx *sqlx.Tx, externalID string) (*Player, error) {
	var ret Player
	query := `SELECT * FROM Player WHERE Player.ExternalID = ? LIMIT 1`
	if err := tx.Get(&ret, query, externalID); err != nil {
		return nil, err
	}

	return &ret, nil
}

package back

import (
	"context"
	"elorank/internal/elo"
	"elorank/internal/util"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// observerTimeout bounds the time a single RatingObserver call can take.
const observerTimeout = 5 * time.Second

// Back owns the rating store and records match outcomes into it.
type Back struct {
	db *sqlx.DB

	configMu sync.RWMutex
	config   elo.Config

	// slotMu guards every RankingSlot and the EloRanking they point to.
	slotMu sync.Mutex

	observersMu sync.RWMutex
	observers   []RatingObserver
}

func New(sqlDriver string, sqlDSN string, config elo.Config) (*Back, error) {
	// Why even bother converting names? A single greppable string across all
	// your source code is better than any odd conversion scheme you could ever
	// come up with.
	// HACK: This is global but putting this in init() makes test ugly.
	// As only the Back relies on the DB, this seems like an okay-ish place.
	sqlx.NameMapper = func(v string) string { return v }

	db, err := sqlx.Connect(sqlDriver, sqlDSN)
	if err != nil {
		return nil, err
	}

	// A single connection serializes transactions, each read-modify-write of
	// a pair of rankings is then isolated from concurrent matches.
	db.SetMaxOpenConns(1)

	return &Back{
		db:     db,
		config: config,
	}, nil
}

func (b *Back) Close() error {
	return b.db.Close()
}

// Config returns a copy of the current rating policy.
func (b *Back) Config() elo.Config {
	b.configMu.RLock()
	defer b.configMu.RUnlock()

	return b.config
}

// Configure changes the rating policy, matches being recorded keep the
// policy they started with.
func (b *Back) Configure(fn func(*elo.Config)) {
	b.configMu.Lock()
	defer b.configMu.Unlock()

	fn(&b.config)
	log.Printf("debug: rating policy updated, base rating %d", b.config.BaseRating)
}

// A RatingObserver is told about every committed rating change.
type RatingObserver interface {
	RatingsUpdated(ctx context.Context, rankings []EloRanking) error
}

func (b *Back) AddObserver(o RatingObserver) {
	b.observersMu.Lock()
	defer b.observersMu.Unlock()

	b.observers = append(b.observers, o)
}

// notify forwards rankings to observers, failures are only logged as the
// database stays the source of truth.
func (b *Back) notify(rankings []EloRanking) {
	b.observersMu.RLock()
	defer b.observersMu.RUnlock()

	errs := make([]error, 0, len(b.observers))
	for _, o := range b.observers {
		ctx, cancel := context.WithTimeout(context.Background(), observerTimeout)
		errs = append(errs, o.RatingsUpdated(ctx, rankings))
		cancel()
	}

	if err := util.ConcatErrors(errs); err != nil {
		log.Printf("error: unable to notify rating observers: %s", err)
	}
}

func (b *Back) transaction(cb util.TransactionCallback) error {
	return util.Transaction(context.Background(), b.db, cb)
}

// LoadFixtures creates a few players and teams with some history.
func (b *Back) LoadFixtures() error {
	playerNames := []string{
		"Darunia", "Nabooru", "Rauru", "Ruto", "Saria", "Zelda", "Impa",
	}
	teamNames := []string{"Gorons", "Zoras", "Kokiri"}

	players := make([]Rankable, 0, len(playerNames))
	for _, v := range playerNames {
		player, err := b.CreatePlayer(v, "")
		if err != nil {
			return err
		}
		players = append(players, player)
	}

	teams := make([]Rankable, 0, len(teamNames))
	for _, v := range teamNames {
		team, err := b.CreateTeam(v)
		if err != nil {
			return err
		}
		teams = append(teams, team)
	}

	if err := b.RecordMultiplayerMatch(players); err != nil {
		return err
	}

	if err := b.RecordWinnerVsAll(players[len(players)-1], players[:2]); err != nil {
		return err
	}

	if err := b.RecordDraw(teams[0], teams[1]); err != nil {
		return err
	}

	return b.RecordPairwise(teams[2], teams[0])
}

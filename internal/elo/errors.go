package elo

import "fmt"

// InvalidMatchError reports a match whose shape cannot be played, eg. a
// multiplayer match with a single player.
type InvalidMatchError string

func (e InvalidMatchError) Error() string {
	return string(e)
}

const (
	ErrNotEnoughPlayers InvalidMatchError = "Need at least 2 players for a match"
	ErrNoLosers         InvalidMatchError = "Need at least 1 loser"
	ErrWinnerInLosers   InvalidMatchError = "Winner cannot be in losers list"
)

// ArgumentError reports a programmer error: a bad participant or a malformed
// K-factor policy.
type ArgumentError string

func (e ArgumentError) Error() string {
	return string(e)
}

const (
	ErrNilPlayer           ArgumentError = "Player cannot be nil"
	ErrNoRankingSlot       ArgumentError = "Player does not expose a rating record"
	ErrPlayerDestroyed     ArgumentError = "Player has been destroyed"
	ErrPlayerNotSaved      ArgumentError = "Player must be saved before it can be rated"
	ErrRankingMissing      ArgumentError = "Player rating record is missing"
	ErrRankingNotPersisted ArgumentError = "Player rating record is not persisted"
	ErrDuplicatePlayers    ArgumentError = "Players must be unique"

	ErrNilOpponent       ArgumentError = "Cannot play against nil"
	ErrSelfMatch         ArgumentError = "Cannot play against yourself"
	ErrOpponentNoRanking ArgumentError = "Opponent does not expose a rating record"

	ErrInvalidKFactorPolicy ArgumentError = "K-factor strategy must be a function or a number"
	ErrInvalidKFactor       ArgumentError = "K-factor must be a finite, non-negative number"
)

// ValidationError is returned when a rating record would be persisted in an
// invalid state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation failed: %s %s", e.Field, e.Reason)
}

// ValidateRecord checks the invariants a stored record must hold.
func ValidateRecord(r Record) error {
	if r.Rating <= 0 {
		return &ValidationError{Field: "Rating", Reason: "must be greater than 0"}
	}

	if r.GamesPlayed < 0 {
		return &ValidationError{Field: "GamesPlayed", Reason: "must be greater than or equal to 0"}
	}

	return nil
}

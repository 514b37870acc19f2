// internal/store/store.go
//
// Persistence boundary for games, players and hole results.
// Implementations:
//   - memory.go: maps guarded by a RWMutex, lost on restart.
//   - sqlite.go: database/sql over mattn/go-sqlite3 with embedded migrations.
//
// Missing entities are reported as errors wrapping game.ErrNotFound.
// ApplyHole and ResetGame are batch operations: either every write lands or
// none does.

package store

import (
	"context"
	"fmt"

	"github.com/robalobadob/golf-wolf/internal/game"
)

// Store defines the persistence interface used by the round service.
type Store interface {
	CreateGame(ctx context.Context) (game.Game, error)
	GetGame(ctx context.Context, id int64) (game.Game, error)
	SetGameStatus(ctx context.Context, id int64, status game.Status) (game.Game, error)
	SetGameHole(ctx context.Context, id int64, hole int) (game.Game, error)

	CreatePlayer(ctx context.Context, gameID int64, p game.NewPlayer) (game.Player, error)
	GetPlayer(ctx context.Context, id int64) (game.Player, error)
	// ListPlayers returns the game's players in insertion order.
	ListPlayers(ctx context.Context, gameID int64) ([]game.Player, error)
	SetPlayerScore(ctx context.Context, id int64, score int) (game.Player, error)
	DeletePlayer(ctx context.Context, id int64) error

	CreateHoleResult(ctx context.Context, r game.HoleResult) (game.HoleResult, error)
	// ListHoleResults returns the game's results ordered by hole number.
	ListHoleResults(ctx context.Context, gameID int64) ([]game.HoleResult, error)
	GetHoleResult(ctx context.Context, gameID int64, hole int) (game.HoleResult, error)

	// ApplyHole persists r, adds every delta to its player's score and
	// overwrites the game's status and hole with next, atomically. A hole
	// that already has a result fails with game.ErrPrecondition.
	ApplyHole(ctx context.Context, r game.HoleResult, deltas []game.Delta, next game.Game) (game.HoleResult, error)
	// ResetGame puts the game back in setup on hole 1, zeroes its players'
	// scores and deletes its hole results, atomically.
	ResetGame(ctx context.Context, id int64) (game.Game, error)

	Close() error
}

func holeRecorded(r game.HoleResult) error {
	return fmt.Errorf("%w: hole %d of game %d already recorded", game.ErrPrecondition, r.HoleNumber, r.GameID)
}

// internal/round/service.go
//
// Round service: wires the scoring engine and state machine to a Store.
// Responsibilities:
//   - Game lifecycle: create, start (≥3 players), restart (full reset).
//   - Roster edits while in setup.
//   - Hole submission: validate → guard → evaluate → apply atomically.
//   - Read models: aggregate state, leaderboard, audit against history.
//
// Every state change is logged through zerolog.
package round

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/golf-wolf/internal/game"
	"github.com/robalobadob/golf-wolf/internal/store"
)

// CompleteFunc is called with the final state once hole 18 is recorded.
type CompleteFunc func(ctx context.Context, st game.State)

// Service is safe for concurrent use as long as its Store is.
type Service struct {
	store      store.Store
	onComplete CompleteFunc
}

// New returns a Service backed by st.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// OnComplete registers fn to run after a game completes. Errors inside fn
// are its own concern; the submission has already been persisted.
func (s *Service) OnComplete(fn CompleteFunc) { s.onComplete = fn }

// CreateGame starts a new game in setup on hole 1.
func (s *Service) CreateGame(ctx context.Context) (game.Game, error) {
	g, err := s.store.CreateGame(ctx)
	if err != nil {
		return game.Game{}, err
	}
	log.Info().Int64("gameId", g.ID).Msg("game created")
	return g, nil
}

// GetState returns the game with its players and hole results.
func (s *Service) GetState(ctx context.Context, id int64) (game.State, error) {
	g, err := s.store.GetGame(ctx, id)
	if err != nil {
		return game.State{}, err
	}
	players, err := s.store.ListPlayers(ctx, id)
	if err != nil {
		return game.State{}, err
	}
	results, err := s.store.ListHoleResults(ctx, id)
	if err != nil {
		return game.State{}, err
	}
	return game.State{Game: g, Players: players, Results: results}, nil
}

// StartGame moves a setup game to playing. It needs at least 3 players.
func (s *Service) StartGame(ctx context.Context, id int64) (game.Game, error) {
	g, err := s.store.GetGame(ctx, id)
	if err != nil {
		return game.Game{}, err
	}
	players, err := s.store.ListPlayers(ctx, id)
	if err != nil {
		return game.Game{}, err
	}
	if err := game.CanStart(g, len(players)); err != nil {
		return game.Game{}, err
	}
	g, err = s.store.SetGameStatus(ctx, id, game.StatusPlaying)
	if err != nil {
		return game.Game{}, err
	}
	log.Info().Int64("gameId", id).Int("players", len(players)).Msg("game started")
	return g, nil
}

// RestartGame returns the game to setup on hole 1, zeroes every score and
// discards recorded holes. Players are kept.
func (s *Service) RestartGame(ctx context.Context, id int64) (game.Game, error) {
	g, err := s.store.ResetGame(ctx, id)
	if err != nil {
		return game.Game{}, err
	}
	log.Info().Int64("gameId", id).Msg("game restarted")
	return g, nil
}

// AddPlayer registers a player on a game that is still in setup.
func (s *Service) AddPlayer(ctx context.Context, gameID int64, np game.NewPlayer) (game.Player, error) {
	if err := game.ValidateNewPlayer(&np); err != nil {
		return game.Player{}, err
	}
	g, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return game.Player{}, err
	}
	if err := game.CanEditRoster(g); err != nil {
		return game.Player{}, err
	}
	p, err := s.store.CreatePlayer(ctx, gameID, np)
	if err != nil {
		return game.Player{}, err
	}
	log.Info().Int64("gameId", gameID).Int64("playerId", p.ID).Str("name", p.Name).Msg("player added")
	return p, nil
}

// DeletePlayer removes a player whose game is still in setup.
func (s *Service) DeletePlayer(ctx context.Context, id int64) error {
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return err
	}
	g, err := s.store.GetGame(ctx, p.GameID)
	if err != nil && !errors.Is(err, game.ErrNotFound) {
		return err
	}
	if err == nil {
		if err := game.CanEditRoster(g); err != nil {
			return err
		}
	}
	if err := s.store.DeletePlayer(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("gameId", p.GameID).Int64("playerId", id).Msg("player deleted")
	return nil
}

// SubmitHole records one hole and applies its points.
//
// The game must be playing, the hole must be the current one and not yet
// recorded. Result, score updates and the hole/status advance are written
// as one batch.
func (s *Service) SubmitHole(ctx context.Context, sub game.HoleSubmission) (game.HoleResult, error) {
	if err := game.ValidateSubmission(sub); err != nil {
		return game.HoleResult{}, err
	}
	g, err := s.store.GetGame(ctx, sub.GameID)
	if err != nil {
		return game.HoleResult{}, err
	}
	_, err = s.store.GetHoleResult(ctx, sub.GameID, sub.HoleNumber)
	switch {
	case err == nil:
		return game.HoleResult{}, game.CanSubmit(g, sub.HoleNumber, true)
	case !errors.Is(err, game.ErrNotFound):
		return game.HoleResult{}, err
	}
	if err := game.CanSubmit(g, sub.HoleNumber, false); err != nil {
		return game.HoleResult{}, err
	}

	players, err := s.store.ListPlayers(ctx, sub.GameID)
	if err != nil {
		return game.HoleResult{}, err
	}
	roster := make([]int64, len(players))
	for i, p := range players {
		roster[i] = p.ID
	}

	deltas := game.Evaluate(sub, roster)
	next := game.Advance(g, sub.HoleNumber)
	saved, err := s.store.ApplyHole(ctx, sub.Result(), deltas, next)
	if err != nil {
		log.Error().Err(err).Int64("gameId", sub.GameID).Int("hole", sub.HoleNumber).Msg("apply hole")
		return game.HoleResult{}, err
	}

	awarded := make([]game.Delta, 0, len(deltas))
	for _, d := range deltas {
		if d.Points != 0 {
			awarded = append(awarded, d)
		}
	}
	log.Info().
		Int64("gameId", sub.GameID).
		Int("hole", sub.HoleNumber).
		Int64("wolfId", sub.WolfID).
		Bool("loneWolf", sub.IsLoneWolf).
		Interface("awarded", awarded).
		Str("status", string(next.Status)).
		Msg("hole recorded")

	if next.Status == game.StatusComplete && s.onComplete != nil {
		st, err := s.GetState(ctx, sub.GameID)
		if err != nil {
			log.Warn().Err(err).Int64("gameId", sub.GameID).Msg("load final state")
		} else {
			s.onComplete(ctx, st)
		}
	}
	return saved, nil
}

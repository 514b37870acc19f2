package round

import (
	"context"
	"sort"

	"github.com/robalobadob/golf-wolf/internal/game"
)

// Standing is one row of the leaderboard.
type Standing struct {
	Rank     int    `json:"rank"`
	PlayerID int64  `json:"playerId"`
	Name     string `json:"name"`
	Handicap int    `json:"handicap"`
	Score    int    `json:"score"`
}

// Leaderboard ranks the game's players by score, highest first. Tied
// players share a rank and keep insertion order.
func (s *Service) Leaderboard(ctx context.Context, id int64) ([]Standing, error) {
	if _, err := s.store.GetGame(ctx, id); err != nil {
		return nil, err
	}
	players, err := s.store.ListPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	return Rank(players), nil
}

// Rank orders players by score and assigns competition ranks (1, 1, 3...).
func Rank(players []game.Player) []Standing {
	sorted := append([]game.Player{}, players...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	out := make([]Standing, len(sorted))
	for i, p := range sorted {
		rank := i + 1
		if i > 0 && p.Score == sorted[i-1].Score {
			rank = out[i-1].Rank
		}
		out[i] = Standing{Rank: rank, PlayerID: p.ID, Name: p.Name, Handicap: p.Handicap, Score: p.Score}
	}
	return out
}

// Mismatch is a player whose cached score disagrees with its history.
type Mismatch struct {
	PlayerID int64 `json:"playerId"`
	Cached   int   `json:"cached"`
	Derived  int   `json:"derived"`
}

// Audit compares cached player scores with a replay of the hole results.
type Audit struct {
	GameID     int64         `json:"gameId"`
	Holes      int           `json:"holes"`
	Derived    map[int64]int `json:"derived"`
	Mismatches []Mismatch    `json:"mismatches"`
	Consistent bool          `json:"consistent"`
}

// Audit recomputes every player's score from the stored results.
func (s *Service) Audit(ctx context.Context, id int64) (Audit, error) {
	st, err := s.GetState(ctx, id)
	if err != nil {
		return Audit{}, err
	}
	roster := make([]int64, len(st.Players))
	for i, p := range st.Players {
		roster[i] = p.ID
	}
	derived := game.Totals(st.Results, roster)

	a := Audit{GameID: id, Holes: len(st.Results), Derived: derived, Mismatches: []Mismatch{}}
	for _, p := range st.Players {
		if derived[p.ID] != p.Score {
			a.Mismatches = append(a.Mismatches, Mismatch{PlayerID: p.ID, Cached: p.Score, Derived: derived[p.ID]})
		}
	}
	a.Consistent = len(a.Mismatches) == 0
	return a, nil
}

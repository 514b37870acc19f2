// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used for ephemeral rounds, in development/testing, or when durability is
// not required.
//
// Characteristics:
//   - Entities are kept in maps keyed by auto-incrementing ids.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Values are copied in and out; callers never share stored records.
//   - State is lost when the process restarts.

package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/robalobadob/golf-wolf/internal/game"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex
	games   map[int64]game.Game
	players map[int64]game.Player
	results map[int64]game.HoleResult

	nextGame, nextPlayer, nextResult int64
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		games:   make(map[int64]game.Game),
		players: make(map[int64]game.Player),
		results: make(map[int64]game.HoleResult),
	}
}

func (m *memory) CreateGame(ctx context.Context) (game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextGame++
	g := game.Game{ID: m.nextGame, Status: game.StatusSetup, CurrentHole: 1}
	m.games[g.ID] = g
	return g, nil
}

func (m *memory) GetGame(ctx context.Context, id int64) (game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return game.Game{}, game.NotFound("game", id)
}

func (m *memory) SetGameStatus(ctx context.Context, id int64, status game.Status) (game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return game.Game{}, game.NotFound("game", id)
	}
	g.Status = status
	m.games[id] = g
	return g, nil
}

func (m *memory) SetGameHole(ctx context.Context, id int64, hole int) (game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return game.Game{}, game.NotFound("game", id)
	}
	g.CurrentHole = hole
	m.games[id] = g
	return g, nil
}

func (m *memory) CreatePlayer(ctx context.Context, gameID int64, np game.NewPlayer) (game.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPlayer++
	p := game.Player{ID: m.nextPlayer, GameID: gameID, Name: np.Name, Handicap: np.Handicap}
	m.players[p.ID] = p
	return p, nil
}

func (m *memory) GetPlayer(ctx context.Context, id int64) (game.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.players[id]; ok {
		return p, nil
	}
	return game.Player{}, game.NotFound("player", id)
}

// ListPlayers filters by game and orders by id, which is insertion order.
func (m *memory) ListPlayers(ctx context.Context, gameID int64) ([]game.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []game.Player{}
	for _, p := range m.players {
		if p.GameID == gameID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(x, y game.Player) int { return cmp.Compare(x.ID, y.ID) })
	return out, nil
}

func (m *memory) SetPlayerScore(ctx context.Context, id int64, score int) (game.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return game.Player{}, game.NotFound("player", id)
	}
	p.Score = score
	m.players[id] = p
	return p, nil
}

func (m *memory) DeletePlayer(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[id]; !ok {
		return game.NotFound("player", id)
	}
	delete(m.players, id)
	return nil
}

func (m *memory) CreateHoleResult(ctx context.Context, r game.HoleResult) (game.HoleResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertResult(r), nil
}

// insertResult assigns an id and stores a copy of r. Caller holds mu.
func (m *memory) insertResult(r game.HoleResult) game.HoleResult {
	m.nextResult++
	r.ID = m.nextResult
	r = cloneResult(r)
	m.results[r.ID] = r
	return cloneResult(r)
}

func (m *memory) ListHoleResults(ctx context.Context, gameID int64) ([]game.HoleResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []game.HoleResult{}
	for _, r := range m.results {
		if r.GameID == gameID {
			out = append(out, cloneResult(r))
		}
	}
	slices.SortFunc(out, func(x, y game.HoleResult) int {
		if x.HoleNumber != y.HoleNumber {
			return x.HoleNumber - y.HoleNumber
		}
		return cmp.Compare(x.ID, y.ID)
	})
	return out, nil
}

func (m *memory) GetHoleResult(ctx context.Context, gameID int64, hole int) (game.HoleResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found *game.HoleResult
	for _, r := range m.results {
		if r.GameID == gameID && r.HoleNumber == hole && (found == nil || r.ID < found.ID) {
			r := r
			found = &r
		}
	}
	if found == nil {
		return game.HoleResult{}, game.NotFound("hole result", int64(hole))
	}
	return cloneResult(*found), nil
}

// ApplyHole checks every referenced record before writing anything, so a
// missing player or an already recorded hole leaves the store untouched.
func (m *memory) ApplyHole(ctx context.Context, r game.HoleResult, deltas []game.Delta, next game.Game) (game.HoleResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[next.ID]; !ok {
		return game.HoleResult{}, game.NotFound("game", next.ID)
	}
	for _, prev := range m.results {
		if prev.GameID == r.GameID && prev.HoleNumber == r.HoleNumber {
			return game.HoleResult{}, holeRecorded(r)
		}
	}
	for _, d := range deltas {
		if _, ok := m.players[d.PlayerID]; !ok {
			return game.HoleResult{}, game.NotFound("player", d.PlayerID)
		}
	}

	saved := m.insertResult(r)
	for _, d := range deltas {
		p := m.players[d.PlayerID]
		p.Score += d.Points
		m.players[d.PlayerID] = p
	}
	m.games[next.ID] = next
	return saved, nil
}

func (m *memory) ResetGame(ctx context.Context, id int64) (game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return game.Game{}, game.NotFound("game", id)
	}
	g = game.Reset(g)
	m.games[id] = g
	for pid, p := range m.players {
		if p.GameID == id {
			p.Score = 0
			m.players[pid] = p
		}
	}
	for rid, r := range m.results {
		if r.GameID == id {
			delete(m.results, rid)
		}
	}
	return g, nil
}

func (m *memory) Close() error { return nil }

func cloneResult(r game.HoleResult) game.HoleResult {
	if r.PartnerID != nil {
		p := *r.PartnerID
		r.PartnerID = &p
	}
	r.WinnerIDs = append([]int64{}, r.WinnerIDs...)
	return r
}

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/robalobadob/golf-wolf/internal/game"
)

// eachStore runs fn against every Store implementation.
func eachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) {
		s := NewMemoryStore()
		defer s.Close()
		fn(t, s)
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "data", "wolf.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		defer s.Close()
		fn(t, s)
	})
}

func seed(t *testing.T, s Store, names ...string) (game.Game, []game.Player) {
	t.Helper()
	ctx := context.Background()
	g, err := s.CreateGame(ctx)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	var ps []game.Player
	for _, n := range names {
		p, err := s.CreatePlayer(ctx, g.ID, game.NewPlayer{Name: n, Handicap: 5})
		if err != nil {
			t.Fatalf("create player %s: %v", n, err)
		}
		ps = append(ps, p)
	}
	return g, ps
}

func TestGameLifecycle(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		g1, _ := seed(t, s)
		g2, _ := seed(t, s)
		if g1.ID == g2.ID {
			t.Fatal("games should get distinct ids")
		}
		if g1.Status != game.StatusSetup || g1.CurrentHole != 1 {
			t.Fatalf("expected new game in setup on hole 1, got %+v", g1)
		}

		g, err := s.SetGameStatus(ctx, g1.ID, game.StatusPlaying)
		if err != nil || g.Status != game.StatusPlaying {
			t.Fatalf("set status: %+v %v", g, err)
		}
		g, err = s.SetGameHole(ctx, g1.ID, 7)
		if err != nil || g.CurrentHole != 7 || g.Status != game.StatusPlaying {
			t.Fatalf("set hole: %+v %v", g, err)
		}
		got, err := s.GetGame(ctx, g1.ID)
		if err != nil || got != g {
			t.Fatalf("expected %+v, got %+v (%v)", g, got, err)
		}

		if _, err := s.GetGame(ctx, 999); !errors.Is(err, game.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if _, err := s.SetGameStatus(ctx, 999, game.StatusPlaying); !errors.Is(err, game.ErrNotFound) {
			t.Fatalf("expected not found on status, got %v", err)
		}
		if _, err := s.SetGameHole(ctx, 999, 2); !errors.Is(err, game.ErrNotFound) {
			t.Fatalf("expected not found on hole, got %v", err)
		}
	})
}

func TestPlayers(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		g, ps := seed(t, s, "Ann", "Bob", "Cat")
		other, _ := seed(t, s, "Zed")

		list, err := s.ListPlayers(ctx, g.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("expected 3 players, got %d", len(list))
		}
		for i, p := range list {
			if p.ID != ps[i].ID || p.Score != 0 || p.Handicap != 5 || p.GameID != g.ID {
				t.Fatalf("unexpected player at %d: %+v", i, p)
			}
		}
		if l, _ := s.ListPlayers(ctx, other.ID); len(l) != 1 || l[0].Name != "Zed" {
			t.Fatalf("expected Zed only, got %+v", l)
		}

		p, err := s.SetPlayerScore(ctx, ps[1].ID, 9)
		if err != nil || p.Score != 9 || p.Name != "Bob" {
			t.Fatalf("set score: %+v %v", p, err)
		}
		if _, err := s.SetPlayerScore(ctx, 999, 1); !errors.Is(err, game.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}

		if err := s.DeletePlayer(ctx, ps[0].ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := s.GetPlayer(ctx, ps[0].ID); !errors.Is(err, game.ErrNotFound) {
			t.Fatalf("expected deleted player to be gone, got %v", err)
		}
		if err := s.DeletePlayer(ctx, ps[0].ID); !errors.Is(err, game.ErrNotFound) {
			t.Fatalf("expected not found on second delete, got %v", err)
		}
		if l, _ := s.ListPlayers(ctx, g.ID); len(l) != 2 {
			t.Fatalf("expected 2 players after delete, got %d", len(l))
		}
	})
}

func TestHoleResults(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		g, ps := seed(t, s, "Ann", "Bob", "Cat")
		partner := ps[1].ID

		r2, err := s.CreateHoleResult(ctx, game.HoleResult{
			GameID: g.ID, HoleNumber: 2, WolfID: ps[0].ID, PartnerID: &partner, WinnerIDs: []int64{ps[2].ID},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		r1, err := s.CreateHoleResult(ctx, game.HoleResult{
			GameID: g.ID, HoleNumber: 1, WolfID: ps[0].ID, IsLoneWolf: true, WinnerIDs: []int64{ps[0].ID},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if r1.ID == 0 || r1.ID == r2.ID {
			t.Fatalf("expected distinct assigned ids, got %d and %d", r1.ID, r2.ID)
		}

		list, err := s.ListHoleResults(ctx, g.ID)
		if err != nil || len(list) != 2 {
			t.Fatalf("list: %+v %v", list, err)
		}
		if list[0].HoleNumber != 1 || list[1].HoleNumber != 2 {
			t.Fatalf("expected hole order, got %d then %d", list[0].HoleNumber, list[1].HoleNumber)
		}
		if list[0].PartnerID != nil || !list[0].IsLoneWolf {
			t.Fatalf("expected lone wolf result, got %+v", list[0])
		}
		if list[1].PartnerID == nil || *list[1].PartnerID != partner {
			t.Fatalf("expected partner %d, got %+v", partner, list[1].PartnerID)
		}
		if len(list[1].WinnerIDs) != 1 || list[1].WinnerIDs[0] != ps[2].ID {
			t.Fatalf("unexpected winners %v", list[1].WinnerIDs)
		}

		got, err := s.GetHoleResult(ctx, g.ID, 2)
		if err != nil || got.ID != r2.ID {
			t.Fatalf("get: %+v %v", got, err)
		}
		if _, err := s.GetHoleResult(ctx, g.ID, 3); !errors.Is(err, game.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestApplyHole(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		g, ps := seed(t, s, "Ann", "Bob", "Cat")
		g, _ = s.SetGameStatus(ctx, g.ID, game.StatusPlaying)

		sub := game.HoleSubmission{GameID: g.ID, HoleNumber: 1, WolfID: ps[0].ID, IsLoneWolf: true, WinnerIDs: []int64{ps[1].ID}}
		roster := []int64{ps[0].ID, ps[1].ID, ps[2].ID}
		saved, err := s.ApplyHole(ctx, sub.Result(), game.Evaluate(sub, roster), game.Advance(g, 1))
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if saved.ID == 0 || saved.HoleNumber != 1 {
			t.Fatalf("unexpected saved result %+v", saved)
		}

		list, _ := s.ListPlayers(ctx, g.ID)
		want := []int{0, 1, 1}
		for i, p := range list {
			if p.Score != want[i] {
				t.Fatalf("player %s: expected %d, got %d", p.Name, want[i], p.Score)
			}
		}
		cur, _ := s.GetGame(ctx, g.ID)
		if cur.CurrentHole != 2 || cur.Status != game.StatusPlaying {
			t.Fatalf("expected playing on hole 2, got %+v", cur)
		}
	})
}

func TestApplyHoleIsAllOrNothing(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		g, ps := seed(t, s, "Ann", "Bob", "Cat")
		g, _ = s.SetGameStatus(ctx, g.ID, game.StatusPlaying)

		deltas := []game.Delta{{PlayerID: ps[0].ID, Points: 2}, {PlayerID: 999, Points: 2}}
		r := game.HoleResult{GameID: g.ID, HoleNumber: 1, WolfID: ps[0].ID, WinnerIDs: []int64{ps[0].ID}}
		if _, err := s.ApplyHole(ctx, r, deltas, game.Advance(g, 1)); !errors.Is(err, game.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}

		if p, _ := s.GetPlayer(ctx, ps[0].ID); p.Score != 0 {
			t.Fatalf("expected score untouched, got %d", p.Score)
		}
		if l, _ := s.ListHoleResults(ctx, g.ID); len(l) != 0 {
			t.Fatalf("expected no results, got %d", len(l))
		}
		if cur, _ := s.GetGame(ctx, g.ID); cur.CurrentHole != 1 {
			t.Fatalf("expected hole untouched, got %d", cur.CurrentHole)
		}
	})
}

func TestResetGame(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		g, ps := seed(t, s, "Ann", "Bob", "Cat")
		other, ops := seed(t, s, "Zed")
		_, _ = s.SetPlayerScore(ctx, ops[0].ID, 5)
		_, _ = s.CreateHoleResult(ctx, game.HoleResult{GameID: other.ID, HoleNumber: 1, WolfID: ops[0].ID, WinnerIDs: []int64{}})

		g, _ = s.SetGameStatus(ctx, g.ID, game.StatusPlaying)
		sub := game.HoleSubmission{GameID: g.ID, HoleNumber: 1, WolfID: ps[0].ID, IsLoneWolf: true, WinnerIDs: []int64{ps[0].ID}}
		if _, err := s.ApplyHole(ctx, sub.Result(), []game.Delta{{PlayerID: ps[0].ID, Points: 4}}, game.Advance(g, 1)); err != nil {
			t.Fatalf("apply: %v", err)
		}

		reset, err := s.ResetGame(ctx, g.ID)
		if err != nil {
			t.Fatalf("reset: %v", err)
		}
		if reset.Status != game.StatusSetup || reset.CurrentHole != 1 {
			t.Fatalf("expected setup on hole 1, got %+v", reset)
		}
		if p, _ := s.GetPlayer(ctx, ps[0].ID); p.Score != 0 {
			t.Fatalf("expected score reset, got %d", p.Score)
		}
		if l, _ := s.ListHoleResults(ctx, g.ID); len(l) != 0 {
			t.Fatalf("expected results cleared, got %d", len(l))
		}

		// other games are untouched
		if p, _ := s.GetPlayer(ctx, ops[0].ID); p.Score != 5 {
			t.Fatalf("expected other game's score kept, got %d", p.Score)
		}
		if l, _ := s.ListHoleResults(ctx, other.ID); len(l) != 1 {
			t.Fatalf("expected other game's result kept, got %d", len(l))
		}

		if _, err := s.ResetGame(ctx, 999); !errors.Is(err, game.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestApplyHoleRejectsRecordedHole(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		g, ps := seed(t, s, "Ann", "Bob", "Cat")
		g, _ = s.SetGameStatus(ctx, g.ID, game.StatusPlaying)

		sub := game.HoleSubmission{GameID: g.ID, HoleNumber: 1, WolfID: ps[0].ID, IsLoneWolf: true, WinnerIDs: []int64{ps[0].ID}}
		deltas := []game.Delta{{PlayerID: ps[0].ID, Points: 4}}
		if _, err := s.ApplyHole(ctx, sub.Result(), deltas, game.Advance(g, 1)); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if _, err := s.ApplyHole(ctx, sub.Result(), deltas, game.Advance(g, 1)); !errors.Is(err, game.ErrPrecondition) {
			t.Fatalf("expected precondition on second apply, got %v", err)
		}
		if p, _ := s.GetPlayer(ctx, ps[0].ID); p.Score != 4 {
			t.Fatalf("expected score applied once, got %d", p.Score)
		}
	})
}

// internal/game/engine.go
//
// Scoring engine for a Wolf round.
// Responsibilities:
//   - Evaluate a hole submission into per-player point deltas.
//   - Replay stored hole results into totals (consistency checks).
//   - Track state transitions: setup → playing → complete, plus restart.
//
// Notes:
//   - Everything here is pure; persistence lives in the store package.
//   - Roster membership of wolf/partner/winners is a caller precondition
//     and is not checked.
package game

import (
	"fmt"
	"slices"
)

// Points awarded per outcome.
const (
	loneWolfWin  = 4 // to the wolf
	loneWolfLoss = 1 // to each opponent
	teamWin      = 2 // to wolf and partner
	teamLoss     = 3 // to each opponent
)

// Evaluate computes the score changes for one hole.
// It returns exactly one Delta per roster member, in roster order; members
// that gain nothing get a zero Delta.
//
// Outcome is decided only by whether the wolf is among the winners. A
// partnered submission without a partner yields all zeros.
func Evaluate(sub HoleSubmission, roster []int64) []Delta {
	out := make([]Delta, len(roster))
	for i, id := range roster {
		out[i].PlayerID = id
	}

	wolfWon := slices.Contains(sub.WinnerIDs, sub.WolfID)

	switch {
	case sub.IsLoneWolf && wolfWon:
		award(out, loneWolfWin, func(id int64) bool { return id == sub.WolfID })
	case sub.IsLoneWolf:
		award(out, loneWolfLoss, func(id int64) bool { return id != sub.WolfID })
	case sub.PartnerID == nil:
		// nothing to score
	case wolfWon:
		partner := *sub.PartnerID
		award(out, teamWin, func(id int64) bool { return id == sub.WolfID || id == partner })
	default:
		partner := *sub.PartnerID
		award(out, teamLoss, func(id int64) bool { return id != sub.WolfID && id != partner })
	}
	return out
}

// award adds pts to every delta whose player matches.
func award(ds []Delta, pts int, match func(int64) bool) {
	for i := range ds {
		if match(ds[i].PlayerID) {
			ds[i].Points += pts
		}
	}
}

// Totals replays results against roster and returns the derived score of
// every roster member.
func Totals(results []HoleResult, roster []int64) map[int64]int {
	totals := make(map[int64]int, len(roster))
	for _, id := range roster {
		totals[id] = 0
	}
	for _, r := range results {
		for _, d := range Evaluate(r.Submission(), roster) {
			totals[d.PlayerID] += d.Points
		}
	}
	return totals
}

// Submission turns a stored result back into the input that produced it.
func (r HoleResult) Submission() HoleSubmission {
	return HoleSubmission{
		GameID:     r.GameID,
		HoleNumber: r.HoleNumber,
		WolfID:     r.WolfID,
		PartnerID:  r.PartnerID,
		IsLoneWolf: r.IsLoneWolf,
		WinnerIDs:  r.WinnerIDs,
	}
}

// Advance returns the game state after holeNumber has been submitted.
// Hole 18 completes the game and leaves the counter on 18; any other hole
// moves the counter to the next hole and keeps the status.
func Advance(g Game, holeNumber int) Game {
	if holeNumber == Holes {
		g.Status = StatusComplete
		return g
	}
	g.CurrentHole = holeNumber + 1
	return g
}

// Reset returns g back in setup on hole 1.
func Reset(g Game) Game {
	g.Status = StatusSetup
	g.CurrentHole = 1
	return g
}

// CanStart reports whether a game in g's state with rosterSize players may
// move to playing.
func CanStart(g Game, rosterSize int) error {
	if g.Status != StatusSetup {
		return fmt.Errorf("%w: game is %s", ErrPrecondition, g.Status)
	}
	if rosterSize < MinPlayers {
		return ErrNotEnoughPlayers
	}
	return nil
}

// CanEditRoster reports whether players may be added or removed.
func CanEditRoster(g Game) error {
	if g.Status != StatusSetup {
		return fmt.Errorf("%w: roster is locked once the game has started", ErrPrecondition)
	}
	return nil
}

// CanSubmit reports whether holeNumber may be recorded for g.
// already is true when a result for that hole exists.
func CanSubmit(g Game, holeNumber int, already bool) error {
	if g.Status != StatusPlaying {
		return fmt.Errorf("%w: game is %s", ErrPrecondition, g.Status)
	}
	if already {
		return fmt.Errorf("%w: hole %d already recorded", ErrPrecondition, holeNumber)
	}
	if holeNumber != g.CurrentHole {
		return fmt.Errorf("%w: expected hole %d, got %d", ErrPrecondition, g.CurrentHole, holeNumber)
	}
	return nil
}

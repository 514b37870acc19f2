// internal/game/types.go
//
// Core type definitions for the Wolf scorekeeper.
// Defines:
//   - Status: lifecycle stage of a game (setup/playing/complete).
//   - Game, Player, HoleResult: the three stored entity kinds.
//   - HoleSubmission, NewPlayer: validated inputs.
//   - Delta, State: evaluator output and the aggregate read model.

package game

const (
	// Holes is the length of a round; submitting this hole completes the game.
	Holes = 18
	// MinPlayers is the smallest roster that can start a game.
	MinPlayers = 3
)

// Status is the lifecycle stage of a game.
// Possible values:
//   - "setup":    roster is being assembled.
//   - "playing":  holes are being submitted.
//   - "complete": hole 18 has been submitted.
type Status string

const (
	StatusSetup    Status = "setup"
	StatusPlaying  Status = "playing"
	StatusComplete Status = "complete"
)

// Game is one round of Wolf.
type Game struct {
	ID          int64  `json:"id"`
	Status      Status `json:"status"`
	CurrentHole int    `json:"currentHole"` // 1..18
}

// Player belongs to exactly one game for its lifetime.
type Player struct {
	ID       int64  `json:"id"`
	GameID   int64  `json:"gameId"`
	Name     string `json:"name"`
	Handicap int    `json:"handicap"` // stored, never used for scoring
	Score    int    `json:"score"`    // cached running total
}

// HoleResult is the persisted outcome of one hole. Immutable once created.
type HoleResult struct {
	ID         int64   `json:"id"`
	GameID     int64   `json:"gameId"`
	HoleNumber int     `json:"holeNumber"`
	WolfID     int64   `json:"wolfId"`
	PartnerID  *int64  `json:"partnerId"` // nil when IsLoneWolf
	IsLoneWolf bool    `json:"isLoneWolf"`
	WinnerIDs  []int64 `json:"winnerIds"`
}

// HoleSubmission is what a client reports for a hole.
type HoleSubmission struct {
	GameID     int64   `json:"-"`
	HoleNumber int     `json:"holeNumber" validate:"min=1,max=18"`
	WolfID     int64   `json:"wolfId" validate:"required,gt=0"`
	PartnerID  *int64  `json:"partnerId" validate:"omitempty,gt=0"`
	IsLoneWolf bool    `json:"isLoneWolf"`
	WinnerIDs  []int64 `json:"winnerIds" validate:"required,dive,gt=0"`
}

// Result converts a submission into the record to persist.
// A lone wolf never carries a partner.
func (s HoleSubmission) Result() HoleResult {
	r := HoleResult{
		GameID:     s.GameID,
		HoleNumber: s.HoleNumber,
		WolfID:     s.WolfID,
		IsLoneWolf: s.IsLoneWolf,
		WinnerIDs:  append([]int64{}, s.WinnerIDs...),
	}
	if !s.IsLoneWolf && s.PartnerID != nil {
		p := *s.PartnerID
		r.PartnerID = &p
	}
	return r
}

// NewPlayer is the input for adding a player to a game.
type NewPlayer struct {
	Name     string `json:"name" validate:"required,max=64"`
	Handicap int    `json:"handicap"`
}

// Delta is a score change for one player.
type Delta struct {
	PlayerID int64 `json:"playerId"`
	Points   int   `json:"points"`
}

// State is the aggregate view of a game returned to clients.
type State struct {
	Game    Game         `json:"game"`
	Players []Player     `json:"players"`
	Results []HoleResult `json:"results"`
}

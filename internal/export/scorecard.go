// Package export appends finished-round scorecards to a plain text file.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/golf-wolf/internal/game"
	"github.com/robalobadob/golf-wolf/internal/round"
)

// Writer appends scorecards to a single file. Safe for concurrent use.
type Writer struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewWriter(path string) *Writer {
	return &Writer{path: path, now: time.Now}
}

// Append writes the scorecard for st to the end of the file, creating the
// file and its directory when needed.
func (w *Writer) Append(st game.State) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	fileExists := false
	if _, err := os.Stat(w.path); err == nil {
		fileExists = true
	}
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	if fileExists {
		sb.WriteString("\n")
	}
	sb.WriteString(Scorecard(st, w.now()))
	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

// Hook adapts Append to a completion callback. Failures are logged.
func (w *Writer) Hook() round.CompleteFunc {
	return func(_ context.Context, st game.State) {
		if err := w.Append(st); err != nil {
			log.Warn().Err(err).Int64("gameId", st.Game.ID).Str("file", w.path).Msg("export scorecard")
			return
		}
		log.Info().Int64("gameId", st.Game.ID).Str("file", w.path).Msg("scorecard exported")
	}
}

// Scorecard renders the final standings followed by one line per hole.
func Scorecard(st game.State, at time.Time) string {
	names := make(map[int64]string, len(st.Players))
	for _, p := range st.Players {
		names[p.ID] = p.Name
	}
	name := func(id int64) string {
		if n, ok := names[id]; ok {
			return n
		}
		return fmt.Sprintf("#%d", id)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Wolf Scorecard - Game %d\n", st.Game.ID))
	sb.WriteString(fmt.Sprintf("Finished: %s\n", at.Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString("Standings:\n")
	for _, s := range round.Rank(st.Players) {
		sb.WriteString(fmt.Sprintf("%d. %s (hcp %d): %d points\n", s.Rank, s.Name, s.Handicap, s.Score))
	}

	sb.WriteString("\nHoles:\n")
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for _, r := range st.Results {
		team := name(r.WolfID)
		switch {
		case r.IsLoneWolf:
			team += " (lone wolf)"
		case r.PartnerID != nil:
			team += " & " + name(*r.PartnerID)
		}
		winners := make([]string, len(r.WinnerIDs))
		for i, id := range r.WinnerIDs {
			winners[i] = name(id)
		}
		won := strings.Join(winners, ", ")
		if won == "" {
			won = "-"
		}
		sb.WriteString(fmt.Sprintf("%2d  %s  won: %s\n", r.HoleNumber, team, won))
	}
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	return sb.String()
}

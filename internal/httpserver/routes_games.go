// internal/httpserver/routes_games.go
//
// Game routes:
//   - POST /api/games                     → create a game in setup
//   - GET  /api/games/{id}                → game with players and hole results
//   - POST /api/games/{id}/start          → setup → playing (needs 3 players)
//   - POST /api/games/{id}/restart        → back to setup, scores cleared
//   - GET  /api/games/{id}/leaderboard    → ranked standings
//   - GET  /api/games/{id}/audit          → cached scores vs. replayed history
//   - POST /api/games/{id}/players        → add a player
//   - POST /api/games/{id}/holes          → submit a hole result

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/golf-wolf/internal/game"
	"github.com/robalobadob/golf-wolf/internal/round"
)

func (s *Server) mountGames(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", s.handleCreateGame)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/{id}/start", s.handleStartGame)
		r.Post("/{id}/restart", s.handleRestartGame)
		r.Get("/{id}/leaderboard", s.handleLeaderboard)
		r.Get("/{id}/audit", s.handleAudit)
		r.Post("/{id}/players", s.handleAddPlayer)
		r.Post("/{id}/holes", s.handleSubmitHole)
	})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.CreateGame(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, err := s.svc.GetState(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.svc.StartGame(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleRestartGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.svc.RestartGame(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type leaderboardRes struct {
	GameID    int64            `json:"gameId"`
	Standings []round.Standing `json:"standings"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, err := s.svc.Leaderboard(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardRes{GameID: id, Standings: rows})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Audit(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req game.NewPlayer
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.AddPlayer(r.Context(), gameID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleSubmitHole(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req game.HoleSubmission
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.GameID = gameID
	res, err := s.svc.SubmitHole(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// mountPlayers registers routes addressed by player id alone.
func (s *Server) mountPlayers(r chi.Router) {
	r.Delete("/players/{id}", s.handleDeletePlayer)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.DeletePlayer(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

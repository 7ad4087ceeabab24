package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type RespHealth struct {
	Status           string `json:"status"`
	Games            int    `json:"games"`
	Sessions         int    `json:"sessions"`
	AnalyticsEnabled bool   `json:"analytics_enabled"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write json response: %s\n", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RespHealth{
		Status:           "ok",
		Games:            s.GameManager.CountGames(),
		Sessions:         s.SessionManager.CountSessions(),
		AnalyticsEnabled: s.Db.Analytics.Enabled(),
	})
}

// Read only view of a game, handy for a second screen
// showing the board while the tab is passed around.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := s.GameManager.GetGame(chi.URLParam(r, "gameUuid"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, game.Snapshot())
}

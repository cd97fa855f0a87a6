package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/secretdraw/internal/join"
	"github.com/playperu/secretdraw/internal/repository"
	"github.com/playperu/secretdraw/internal/secretdraw"
)

type JoinRequest struct {
	Name string `json:"name" required:"true"`
}

// PlayerView is a player's own secret assignment. The id is the only
// credential needed to fetch it again.
type PlayerView struct {
	ID          string    `json:"id"`
	GameID      string    `json:"gameId"`
	Name        string    `json:"name"`
	Participant string    `json:"participant"`
	Object      string    `json:"object"`
	Location    string    `json:"location"`
	JoinedAt    time.Time `json:"joinedAt"`
}

func playerView(gameID string, p secretdraw.Player) PlayerView {
	return PlayerView{
		ID:          p.ID,
		GameID:      gameID,
		Name:        p.Name,
		Participant: p.Participant,
		Object:      p.Object,
		Location:    p.Location,
		JoinedAt:    p.JoinedAt,
	}
}

func handleJoin(logger *slog.Logger, joiner *join.Coordinator, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id := gameID(r)
		p, err := joiner.Join(r.Context(), id, req.Name)
		if err != nil {
			writeFailure(logger, w, r, err)
			return
		}

		broker.Publish(Event{Type: EventPlayerJoined, GameID: id, PlayerName: p.Name})
		writeJSON(w, http.StatusCreated, playerView(id, p))
	}
}

func handleGetPlayer(logger *slog.Logger, games *repository.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameID(r)
		g, err := games.GetGame(r.Context(), id)
		if err != nil {
			writeFailure(logger, w, r, err)
			return
		}

		p, ok := g.PlayerByID(chi.URLParam(r, "playerID"))
		if !ok {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		writeJSON(w, http.StatusOK, playerView(id, p))
	}
}

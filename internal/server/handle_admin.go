package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/secretdraw/internal/repository"
)

func handleResetGame(logger *slog.Logger, games *repository.Repository, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := games.ResetGame(r.Context(), gameID(r))
		if err != nil {
			writeFailure(logger, w, r, err)
			return
		}

		logger.Info("game reset", "game_id", g.ID)
		broker.Publish(Event{Type: EventGameReset, GameID: g.ID})
		writeJSON(w, http.StatusOK, detail(g))
	}
}

func handleCloseGame(logger *slog.Logger, games *repository.Repository, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := games.SetActive(r.Context(), gameID(r), false)
		if err != nil {
			writeFailure(logger, w, r, err)
			return
		}

		logger.Info("game closed", "game_id", g.ID)
		broker.Publish(Event{Type: EventGameClosed, GameID: g.ID})
		writeJSON(w, http.StatusOK, detail(g))
	}
}

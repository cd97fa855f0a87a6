package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/playperu/secretdraw/internal/repository"
)

const (
	lobbyLifetime     = 2 * time.Hour
	lobbyWriteTimeout = 5 * time.Second
)

// handleLobbyWS streams a game's lobby events over a websocket. Messages
// from the client are ignored.
func handleLobbyWS(logger *slog.Logger, games *repository.Repository, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameID(r)
		if _, err := games.GetGame(r.Context(), id); err != nil {
			writeFailure(logger, w, r, err)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ch := broker.Subscribe(id)
		defer broker.Unsubscribe(id, ch)

		ctx, cancel := context.WithTimeout(r.Context(), lobbyLifetime)
		defer cancel()
		ctx = conn.CloseRead(ctx)

		if err := write(ctx, conn, Event{Type: EventSubscribed, GameID: id}); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}

		for {
			select {
			case <-ctx.Done():
				logger.Debug("websocket lobby ended", "game_id", id, "error", ctx.Err())
				return
			case ev := <-ch:
				if err := write(ctx, conn, ev); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, lobbyWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}

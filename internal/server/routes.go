package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/secretdraw/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("SecretDraw API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", handleListGames(logger, deps.Games))
		r.Post("/", handleCreateGame(logger, deps.Games))

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", handleGetGame(logger, deps.Games))
			r.Post("/join", handleJoin(logger, deps.Joiner, deps.Broker))
			r.Get("/players/{playerID}", handleGetPlayer(logger, deps.Games))
			r.Get("/events", handleEvents(logger, deps.Games, deps.Broker))
			r.Get("/ws", handleLobbyWS(logger, deps.Games, deps.Broker))
			r.Get("/qr.png", handleQR(logger, deps.Games, deps.PublicBaseURL))

			// Admin actions, gated by the shared admin key.
			r.Group(func(r chi.Router) {
				r.Use(adminKeyMiddleware(logger, deps.Gate))
				r.Post("/reset", handleResetGame(logger, deps.Games, deps.Broker))
				r.Delete("/", handleCloseGame(logger, deps.Games, deps.Broker))
			})
		})
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}

package server

import (
	"context"
	"log/slog"

	"github.com/playperu/secretdraw/internal/repository"
	"github.com/playperu/secretdraw/internal/secretdraw"
)

var demoGame = secretdraw.NewGameRequest{
	Name:         "Cluedo en casa",
	CreatedBy:    "Demo",
	Participants: []string{"Coronel Mostaza", "Señora Celeste", "Profesor Mora"},
	Objects:      []string{"Candelabro", "Cuerda", "Llave inglesa"},
	Locations:    []string{"Cocina", "Biblioteca", "Salón"},
}

// SeedDemo creates the demo game if the collection holds no games.
// Idempotent: does nothing if any game exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, games *repository.Repository) error {
	existing, err := games.ListGames(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	g, err := games.CreateGame(ctx, demoGame)
	if err != nil {
		return err
	}

	logger.Info("demo game created", "game_id", g.ID)
	return nil
}

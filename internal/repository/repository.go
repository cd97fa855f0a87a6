// Package repository is a keyed view over the shared collection. The store
// has no partial update, so every write is a fetch of the whole collection,
// a change to one entry and a replace of the whole collection.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/playperu/secretdraw/internal/secretdraw"
	"github.com/playperu/secretdraw/internal/store"
)

type Repository struct {
	client store.Client
	logger *slog.Logger

	now   func() time.Time
	newID func() string
}

func New(client store.Client, logger *slog.Logger) *Repository {
	return &Repository{
		client: client,
		logger: logger,
		now:    time.Now,
		newID:  secretdraw.NewGameID,
	}
}

// ListGames returns every decodable game in the latest collection,
// inactive ones included.
func (r *Repository) ListGames(ctx context.Context) (map[string]secretdraw.Game, error) {
	coll, err := r.client.FetchCollection(ctx)
	if err != nil {
		return nil, err
	}
	games := make(map[string]secretdraw.Game, len(coll))
	for id, raw := range coll {
		var g secretdraw.Game
		if err := json.Unmarshal(raw, &g); err != nil {
			r.logger.Warn("skipping undecodable game", "game_id", id, "error", err)
			continue
		}
		games[id] = g
	}
	return games, nil
}

func (r *Repository) GetGame(ctx context.Context, id string) (secretdraw.Game, error) {
	coll, err := r.client.FetchCollection(ctx)
	if err != nil {
		return secretdraw.Game{}, err
	}
	return decodeEntry(coll, id)
}

// PutGame writes game at id over a freshly fetched collection. Fields of a
// prior entry that Game does not model are kept. Two concurrent calls for
// the same id are last-writer-wins.
func (r *Repository) PutGame(ctx context.Context, id string, game secretdraw.Game) error {
	coll, err := r.client.FetchCollection(ctx)
	if err != nil {
		return err
	}
	if err := setEntry(coll, id, game); err != nil {
		return err
	}
	return r.client.ReplaceCollection(ctx, coll)
}

// Update fetches the latest collection, applies fn to the game at id and
// writes the result back. An error from fn aborts without writing.
func (r *Repository) Update(ctx context.Context, id string, fn func(*secretdraw.Game) error) (secretdraw.Game, error) {
	coll, err := r.client.FetchCollection(ctx)
	if err != nil {
		return secretdraw.Game{}, err
	}
	g, err := decodeEntry(coll, id)
	if err != nil {
		return secretdraw.Game{}, err
	}
	if err := fn(&g); err != nil {
		return secretdraw.Game{}, err
	}
	if err := setEntry(coll, id, g); err != nil {
		return secretdraw.Game{}, err
	}
	if err := r.client.ReplaceCollection(ctx, coll); err != nil {
		return secretdraw.Game{}, err
	}
	return g, nil
}

// CreateGame validates req, assigns a fresh id and stores the new game.
func (r *Repository) CreateGame(ctx context.Context, req secretdraw.NewGameRequest) (secretdraw.Game, error) {
	id := r.newID()
	g, err := secretdraw.NewGame(id, req, r.now())
	if err != nil {
		return secretdraw.Game{}, err
	}
	if err := r.PutGame(ctx, id, g); err != nil {
		return secretdraw.Game{}, err
	}
	return g, nil
}

// ResetGame discards every player and reactivates the game.
func (r *Repository) ResetGame(ctx context.Context, id string) (secretdraw.Game, error) {
	return r.Update(ctx, id, func(g *secretdraw.Game) error {
		g.Players = []secretdraw.Player{}
		g.IsActive = true
		return nil
	})
}

// SetActive shows or hides a game from discovery.
func (r *Repository) SetActive(ctx context.Context, id string, active bool) (secretdraw.Game, error) {
	return r.Update(ctx, id, func(g *secretdraw.Game) error {
		g.IsActive = active
		return nil
	})
}

func decodeEntry(coll store.Collection, id string) (secretdraw.Game, error) {
	raw, ok := coll[id]
	if !ok || string(raw) == "null" {
		return secretdraw.Game{}, fmt.Errorf("%w: %s", secretdraw.ErrGameNotFound, id)
	}
	var g secretdraw.Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return secretdraw.Game{}, fmt.Errorf("decoding game %s: %w", id, err)
	}
	if g.ID == "" {
		g.ID = id
	}
	return g, nil
}

// setEntry shallow-merges game over the prior entry at id.
func setEntry(coll store.Collection, id string, game secretdraw.Game) error {
	fields := map[string]json.RawMessage{}
	if prior, ok := coll[id]; ok {
		// A prior entry that is not an object is simply replaced.
		_ = json.Unmarshal(prior, &fields)
		if fields == nil {
			fields = map[string]json.RawMessage{}
		}
	}

	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("encoding game %s: %w", id, err)
	}
	var own map[string]json.RawMessage
	if err := json.Unmarshal(data, &own); err != nil {
		return fmt.Errorf("encoding game %s: %w", id, err)
	}
	for k, v := range own {
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding game %s: %w", id, err)
	}
	coll[id] = merged
	return nil
}

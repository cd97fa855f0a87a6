package server

import (
	"context"
	"testing"
)

func TestSeedDemo(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	if err := SeedDemo(ctx, quietLogger(), api.games); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := SeedDemo(ctx, quietLogger(), api.games); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	games, err := api.games.ListGames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 1 {
		t.Fatalf("expected one demo game, got %d", len(games))
	}
	for _, g := range games {
		if g.Capacity() != 3 || !g.IsActive {
			t.Errorf("unexpected demo game %+v", g)
		}
	}
}

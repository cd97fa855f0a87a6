package server

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/playperu/secretdraw/internal/secretdraw"
)

func TestListGames(t *testing.T) {
	api := newTestAPI(t)

	older := fiesta()
	older.ID = "OLD111"
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	older.Players = []secretdraw.Player{{ID: "p1", Name: "Ana", Participant: "A", Object: "X", Location: "P"}}

	closed := fiesta()
	closed.ID = "CLS222"
	closed.CreatedAt = closed.CreatedAt.Add(time.Hour)
	closed.IsActive = false

	api.putGame(t, older)
	api.putGame(t, fiesta())
	api.putGame(t, closed)

	w := api.do(t, http.MethodGet, "/api/games", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode[[]GameSummary](t, w)
	if len(got) != 2 {
		t.Fatalf("expected 2 active games, got %d", len(got))
	}
	if got[0].ID != "ABC123" || got[1].ID != "OLD111" {
		t.Errorf("expected newest first, got %s then %s", got[0].ID, got[1].ID)
	}
	if got[1].AvailableSlots != 1 || got[1].PlayerCount != 1 || got[1].Full {
		t.Errorf("unexpected slots for OLD111: %+v", got[1])
	}

	w = api.do(t, http.MethodGet, "/api/games?all=true", nil)
	all := decode[[]GameSummary](t, w)
	if len(all) != 3 || all[0].ID != "CLS222" {
		t.Errorf("expected closed game first with all=true, got %+v", all)
	}
}

func TestListGamesEmpty(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/games", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
}

func TestCreateGame(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/games", CreateGameRequest{
		Participants: []string{" Ana ", "Beto", ""},
		Objects:      []string{"Cuerda", "Vela", "Llave"},
		Locations:    []string{"Cocina", "Patio"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	g := decode[GameDetail](t, w)

	if !secretdraw.ValidGameID(g.ID) {
		t.Errorf("unexpected game id %q", g.ID)
	}
	if g.Name != "Partida "+g.ID || g.CreatedBy != "Admin" {
		t.Errorf("expected defaults, got name %q createdBy %q", g.Name, g.CreatedBy)
	}
	if g.Capacity != 2 || !g.IsActive || len(g.Players) != 0 {
		t.Errorf("unexpected game: %+v", g.GameSummary)
	}
	if g.Participants[0] != "Ana" || len(g.Participants) != 2 {
		t.Errorf("expected trimmed pool, got %q", g.Participants)
	}

	w = api.do(t, http.MethodGet, "/api/games/"+g.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected created game to be readable, got %d", w.Code)
	}
}

func TestCreateGameValidation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body any
	}{
		{"empty pool", CreateGameRequest{Participants: []string{"A"}, Objects: []string{" "}, Locations: []string{"P"}}},
		{"duplicate", CreateGameRequest{Participants: []string{"A", "A"}, Objects: []string{"X"}, Locations: []string{"P"}}},
		{"not json", "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/api/games", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
	if api.mem.Writes() != 0 {
		t.Errorf("invalid games were written %d times", api.mem.Writes())
	}
}

func TestGetGameHidesAssignments(t *testing.T) {
	api := newTestAPI(t)
	g := fiesta()
	g.Players = []secretdraw.Player{{ID: "secret-id", Name: "Ana", Participant: "B", Object: "Y", Location: "Q"}}
	api.putGame(t, g)

	w := api.do(t, http.MethodGet, "/api/games/ABC123", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, leak := range []string{"secret-id", `"participant"`, `"object"`, `"location"`} {
		if strings.Contains(body, leak) {
			t.Errorf("game view leaks %s: %s", leak, body)
		}
	}
	got := decode[GameDetail](t, w)
	if len(got.Players) != 1 || got.Players[0].Name != "Ana" || got.Full || got.AvailableSlots != 1 {
		t.Errorf("unexpected game view: %+v", got)
	}
}

func TestGetGameFullFlag(t *testing.T) {
	api := newTestAPI(t)
	g := fiesta()
	g.Players = []secretdraw.Player{
		{ID: "p1", Name: "Ana", Participant: "A", Object: "X", Location: "P"},
		{ID: "p2", Name: "Luis", Participant: "B", Object: "Y", Location: "Q"},
	}
	api.putGame(t, g)

	w := api.do(t, http.MethodGet, "/api/games/ABC123", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got := decode[GameDetail](t, w)
	if !got.Full || got.AvailableSlots != 0 || got.PlayerCount != 2 || got.Capacity != 2 {
		t.Errorf("unexpected game view: %+v", got)
	}
}

func TestGetGameNotFound(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/games/ZZZ999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if resp := decode[ErrorResponse](t, w); resp.Kind != "game_not_found" {
		t.Errorf("expected kind game_not_found, got %q", resp.Kind)
	}
}

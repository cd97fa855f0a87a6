package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/playperu/secretdraw/internal/admin"
	"github.com/playperu/secretdraw/internal/handler/health"
	"github.com/playperu/secretdraw/internal/join"
	"github.com/playperu/secretdraw/internal/repository"
	"github.com/playperu/secretdraw/internal/secretdraw"
	"github.com/playperu/secretdraw/internal/store"
)

const testAdminKey = "let-me-in"

type testAPI struct {
	router http.Handler
	games  *repository.Repository
	broker *Broker
	mem    *store.Memory
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithStore(t, store.NewMemory())
}

func newTestAPIWithStore(t *testing.T, client store.Client) *testAPI {
	t.Helper()
	logger := quietLogger()

	gate, err := admin.NewGate(testAdminKey)
	if err != nil {
		t.Fatalf("creating gate: %v", err)
	}
	games := repository.New(client, logger)
	broker := NewBroker()
	mem, _ := client.(*store.Memory)

	r := NewRouter(logger, Deps{
		Games:         games,
		Joiner:        join.New(games, logger, join.DefaultOptions),
		Gate:          gate,
		Broker:        broker,
		Checks:        map[string]health.Checker{},
		PublicBaseURL: "https://draw.example",
	})
	return &testAPI{router: r, games: games, broker: broker, mem: mem}
}

// putGame stores a ready-made game fixture.
func (a *testAPI) putGame(t *testing.T, g secretdraw.Game) {
	t.Helper()
	if g.Players == nil {
		g.Players = []secretdraw.Player{}
	}
	if err := a.games.PutGame(context.Background(), g.ID, g); err != nil {
		t.Fatalf("put %s: %v", g.ID, err)
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
	return v
}

func fiesta() secretdraw.Game {
	return secretdraw.Game{
		ID:           "ABC123",
		Name:         "Fiesta",
		CreatedBy:    "Ana",
		CreatedAt:    time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC),
		Participants: []string{"A", "B"},
		Objects:      []string{"X", "Y"},
		Locations:    []string{"P", "Q"},
		IsActive:     true,
	}
}

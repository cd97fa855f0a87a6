package server

import (
	"cmp"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/playperu/secretdraw/internal/repository"
	"github.com/playperu/secretdraw/internal/secretdraw"
)

// GameSummary is one entry of GET /api/games.
type GameSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	IsActive       bool      `json:"isActive"`
	Capacity       int       `json:"capacity"`
	PlayerCount    int       `json:"playerCount"`
	AvailableSlots int       `json:"availableSlots"`
	Full           bool      `json:"full"`
}

// GameDetail is a game as shown to anyone holding its id. Assignments are
// left out; players are listed by name only.
type GameDetail struct {
	GameSummary
	Participants []string        `json:"participants"`
	Objects      []string        `json:"objects"`
	Locations    []string        `json:"locations"`
	Players      []PlayerSummary `json:"players"`
}

type PlayerSummary struct {
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}

// CreateGameRequest is the request body for POST /api/games.
type CreateGameRequest struct {
	Name         string   `json:"name"`
	CreatedBy    string   `json:"createdBy"`
	Participants []string `json:"participants" required:"true"`
	Objects      []string `json:"objects" required:"true"`
	Locations    []string `json:"locations" required:"true"`
}

func summarize(g secretdraw.Game) GameSummary {
	return GameSummary{
		ID:             g.ID,
		Name:           g.Name,
		CreatedBy:      g.CreatedBy,
		CreatedAt:      g.CreatedAt,
		IsActive:       g.IsActive,
		Capacity:       g.Capacity(),
		PlayerCount:    len(g.Players),
		AvailableSlots: g.AvailableSlots(),
		Full:           g.AvailableSlots() == 0,
	}
}

func detail(g secretdraw.Game) GameDetail {
	players := make([]PlayerSummary, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, PlayerSummary{Name: p.Name, JoinedAt: p.JoinedAt})
	}
	return GameDetail{
		GameSummary:  summarize(g),
		Participants: g.Participants,
		Objects:      g.Objects,
		Locations:    g.Locations,
		Players:      players,
	}
}

func handleListGames(logger *slog.Logger, games *repository.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := r.URL.Query().Get("all") == "true"

		byID, err := games.ListGames(r.Context())
		if err != nil {
			writeFailure(logger, w, r, err)
			return
		}

		out := make([]GameSummary, 0, len(byID))
		for id, g := range byID {
			if !all && !g.IsActive {
				continue
			}
			if g.ID == "" {
				g.ID = id
			}
			out = append(out, summarize(g))
		}
		slices.SortFunc(out, func(a, b GameSummary) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})

		writeJSON(w, http.StatusOK, out)
	}
}

func handleCreateGame(logger *slog.Logger, games *repository.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		g, err := games.CreateGame(r.Context(), secretdraw.NewGameRequest{
			Name:         req.Name,
			CreatedBy:    req.CreatedBy,
			Participants: req.Participants,
			Objects:      req.Objects,
			Locations:    req.Locations,
		})
		if err != nil {
			writeFailure(logger, w, r, err)
			return
		}

		logger.Info("game created", "game_id", g.ID, "capacity", g.Capacity())
		writeJSON(w, http.StatusCreated, detail(g))
	}
}

func handleGetGame(logger *slog.Logger, games *repository.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := games.GetGame(r.Context(), gameID(r))
		if err != nil {
			writeFailure(logger, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, detail(g))
	}
}

package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses. Kind names the failure
// so clients can branch without parsing the message.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// HealthResponse maps each dependency to its check result.
type HealthResponse map[string]struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

type gamePath struct {
	GameID string `path:"gameID"`
}

type listGamesQuery struct {
	All bool `query:"all" description:"Include closed games."`
}

type joinInput struct {
	GameID string `path:"gameID"`
	Name   string `json:"name" required:"true"`
}

type playerPath struct {
	GameID   string `path:"gameID"`
	PlayerID string `path:"playerID"`
}

type qrQuery struct {
	GameID string `path:"gameID"`
	Size   int    `query:"size" minimum:"128" maximum:"1024" default:"256"`
}

type adminInput struct {
	GameID   string `path:"gameID"`
	AdminKey string `header:"X-Admin-Key" required:"true"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "SecretDraw API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Create secret-assignment games, join them and see your own draw.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports whether the game store is reachable.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/games
	listGames, _ := r.NewOperationContext(http.MethodGet, "/api/games")
	listGames.SetSummary("List games")
	listGames.SetDescription("Returns open games, newest first, with their free slots.")
	listGames.AddReqStructure(listGamesQuery{})
	listGames.AddRespStructure([]GameSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	listGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(listGames)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Creates a game from three pools. Capacity is the smallest pool size.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(GameDetail{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(createGame)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns a game with its pools and player names. Assignments are never included.")
	getGame.AddReqStructure(gamePath{})
	getGame.AddRespStructure(GameDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// POST /api/games/{gameID}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/join")
	postJoin.SetSummary("Join game")
	postJoin.SetDescription("Joins under a unique name and returns the player's secret assignment.")
	postJoin.AddReqStructure(joinInput{})
	postJoin.AddRespStructure(PlayerView{}, openapi.WithHTTPStatus(http.StatusCreated))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postJoin)

	// GET /api/games/{gameID}/players/{playerID}
	getPlayer, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/players/{playerID}")
	getPlayer.SetSummary("Get own assignment")
	getPlayer.SetDescription("Returns the assignment of the player holding playerID.")
	getPlayer.AddReqStructure(playerPath{})
	getPlayer.AddRespStructure(PlayerView{}, openapi.WithHTTPStatus(http.StatusOK))
	getPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getPlayer)

	// GET /api/games/{gameID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/events")
	getEvents.SetSummary("Lobby event stream")
	getEvents.SetDescription("Server-Sent Events for joins, resets and closes of one game.")
	getEvents.AddReqStructure(gamePath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	getEvents.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getEvents)

	// GET /api/games/{gameID}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/ws")
	getWS.SetSummary("Lobby websocket")
	getWS.SetDescription("Upgrades to a WebSocket that carries the same events as the SSE stream.")
	getWS.AddReqStructure(gamePath{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	getWS.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getWS)

	// GET /api/games/{gameID}/qr.png
	getQR, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/qr.png")
	getQR.SetSummary("Join QR code")
	getQR.SetDescription("PNG QR code linking to the game's join page.")
	getQR.AddReqStructure(qrQuery{})
	getQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("image/png"))
	getQR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQR)

	// POST /api/games/{gameID}/reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/reset")
	postReset.SetSummary("Reset game")
	postReset.SetDescription("Removes every player and reopens the game. Requires X-Admin-Key.")
	postReset.AddReqStructure(adminInput{})
	postReset.AddRespStructure(GameDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	postReset.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postReset.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postReset)

	// DELETE /api/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	deleteGame.SetSummary("Close game")
	deleteGame.SetDescription("Hides the game from the listing. Players keep their assignments. Requires X-Admin-Key.")
	deleteGame.AddReqStructure(adminInput{})
	deleteGame.AddRespStructure(GameDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

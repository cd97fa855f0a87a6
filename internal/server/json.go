package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/secretdraw/internal/admin"
	"github.com/playperu/secretdraw/internal/join"
	"github.com/playperu/secretdraw/internal/secretdraw"
	"github.com/playperu/secretdraw/internal/store"
)

const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps a failure kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, secretdraw.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, secretdraw.ErrNameRequired),
		errors.Is(err, secretdraw.ErrInvalidGame):
		return http.StatusBadRequest
	case errors.Is(err, secretdraw.ErrNameTaken),
		errors.Is(err, secretdraw.ErrGameFull),
		errors.Is(err, secretdraw.ErrPoolExhausted),
		errors.Is(err, secretdraw.ErrLostUpdate):
		return http.StatusConflict
	case errors.Is(err, admin.ErrInvalidKey):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeFailure writes err with its status and user message. Failures that
// are not the caller's fault are logged.
func writeFailure(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	msg := join.Message(err)
	if errors.Is(err, admin.ErrInvalidKey) {
		msg = "Invalid admin key."
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Kind: kindOf(err)})
}

func kindOf(err error) string {
	kinds := []struct {
		err  error
		kind string
	}{
		{secretdraw.ErrGameNotFound, "game_not_found"},
		{secretdraw.ErrNameRequired, "name_required"},
		{secretdraw.ErrNameTaken, "name_taken"},
		{secretdraw.ErrGameFull, "game_full"},
		{secretdraw.ErrPoolExhausted, "pool_exhausted"},
		{secretdraw.ErrLostUpdate, "lost_update"},
		{secretdraw.ErrInvalidGame, "invalid_game"},
		{admin.ErrInvalidKey, "invalid_admin_key"},
		{store.ErrUnavailable, "store_unavailable"},
		{store.ErrAuth, "store_auth"},
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}

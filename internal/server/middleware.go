package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/playperu/secretdraw/internal/admin"
)

const adminKeyHeader = "X-Admin-Key"

func adminKeyMiddleware(logger *slog.Logger, gate *admin.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.Check(r.Header.Get(adminKeyHeader)); err != nil {
				logger.Warn("admin key rejected", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
				writeFailure(logger, w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func gameID(r *http.Request) string {
	return chi.URLParam(r, "gameID")
}

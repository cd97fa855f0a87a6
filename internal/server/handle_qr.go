package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/playperu/secretdraw/internal/repository"
)

const (
	qrDefaultSize = 256
	qrMinSize     = 128
	qrMaxSize     = 1024
)

// joinURL is the link a QR code points players at.
func joinURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/join/" + id
}

func qrSize(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return qrDefaultSize
	}
	return min(max(n, qrMinSize), qrMaxSize)
}

func handleQR(logger *slog.Logger, games *repository.Repository, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameID(r)
		if _, err := games.GetGame(r.Context(), id); err != nil {
			writeFailure(logger, w, r, err)
			return
		}

		png, err := qrcode.Encode(joinURL(baseURL, id), qrcode.Medium, qrSize(r.URL.Query().Get("size")))
		if err != nil {
			logger.Error("encoding qr code", "game_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "could not render qr code")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

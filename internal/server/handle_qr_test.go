package server

import (
	"bytes"
	"image/png"
	"net/http"
	"testing"
)

func TestQRSize(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 256},
		{"abc", 256},
		{"64", 128},
		{"300", 300},
		{"5000", 1024},
	}
	for _, tt := range tests {
		if got := qrSize(tt.raw); got != tt.want {
			t.Errorf("qrSize(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestJoinURL(t *testing.T) {
	if got := joinURL("https://draw.example/", "ABC123"); got != "https://draw.example/join/ABC123" {
		t.Errorf("joinURL = %q", got)
	}
}

func TestQRCode(t *testing.T) {
	api := newTestAPI(t)
	api.putGame(t, fiesta())

	w := api.do(t, http.MethodGet, "/api/games/ABC123/qr.png?size=200", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type = %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("image is %dx%d, want 200x200", b.Dx(), b.Dy())
	}

	if w := api.do(t, http.MethodGet, "/api/games/ZZZ999/qr.png", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing game, got %d", w.Code)
	}
}

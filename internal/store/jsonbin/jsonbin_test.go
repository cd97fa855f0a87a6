package jsonbin_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playperu/secretdraw/internal/store"
	"github.com/playperu/secretdraw/internal/store/jsonbin"
)

// fakeBin emulates the JSONBin record endpoints for a single bin.
type fakeBin struct {
	mu     sync.Mutex
	key    string
	record json.RawMessage
	status int
}

func (f *fakeBin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	if r.Header.Get("X-Master-Key") != f.key {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"Invalid X-Master-Key provided"}`)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/b/bin1/latest":
		record := f.record
		if record == nil {
			record = json.RawMessage(`{}`)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"record":   record,
			"metadata": map[string]any{"id": "bin1", "private": true},
		})
	case r.Method == http.MethodPut && r.URL.Path == "/b/bin1":
		body, _ := io.ReadAll(r.Body)
		f.record = body
		json.NewEncoder(w).Encode(map[string]any{
			"record":   json.RawMessage(body),
			"metadata": map[string]any{"parentId": "bin1"},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newClient(t *testing.T, f *fakeBin, key string) *jsonbin.Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c, err := jsonbin.New("bin1", key, 2*time.Second, jsonbin.WithBaseURL(srv.URL+"/b/"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := jsonbin.New("", "key", time.Second); !errors.Is(err, jsonbin.ErrMissingConfig) {
		t.Errorf("missing bin id: err = %v", err)
	}
	if _, err := jsonbin.New("bin", "", time.Second); !errors.Is(err, jsonbin.ErrMissingConfig) {
		t.Errorf("missing key: err = %v", err)
	}
}

func TestFetchReplace(t *testing.T) {
	ctx := context.Background()
	f := &fakeBin{key: "secret"}
	c := newClient(t, f, "secret")

	got, err := c.FetchCollection(ctx)
	if err != nil {
		t.Fatalf("fetch empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty collection, got %v", got)
	}

	want := store.Collection{"ABC123": json.RawMessage(`{"id":"ABC123","extra":42}`)}
	if err := c.ReplaceCollection(ctx, want); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err = c.FetchCollection(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(got["ABC123"]) != `{"id":"ABC123","extra":42}` {
		t.Errorf("record = %s", got["ABC123"])
	}
}

func TestNullRecord(t *testing.T) {
	f := &fakeBin{key: "secret", record: json.RawMessage(`null`)}
	c := newClient(t, f, "secret")

	got, err := c.FetchCollection(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty collection, got %v", got)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		f      *fakeBin
		key    string
		wantIs error
	}{
		{name: "bad key", f: &fakeBin{key: "secret"}, key: "wrong", wantIs: store.ErrAuth},
		{name: "forbidden", f: &fakeBin{status: http.StatusForbidden}, key: "k", wantIs: store.ErrAuth},
		{name: "server error", f: &fakeBin{status: http.StatusBadGateway}, key: "k", wantIs: store.ErrUnavailable},
		{name: "not found", f: &fakeBin{status: http.StatusNotFound}, key: "k", wantIs: store.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, tt.f, tt.key)

			if _, err := c.FetchCollection(context.Background()); !errors.Is(err, tt.wantIs) {
				t.Errorf("fetch err = %v, want %v", err, tt.wantIs)
			}
			if err := c.ReplaceCollection(context.Background(), store.Collection{}); !errors.Is(err, tt.wantIs) {
				t.Errorf("replace err = %v, want %v", err, tt.wantIs)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := jsonbin.New("bin1", "k", time.Second, jsonbin.WithBaseURL(url))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.FetchCollection(context.Background()); !errors.Is(err, store.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestResponseTooLarge(t *testing.T) {
	f := &fakeBin{key: "k", record: json.RawMessage(`{"ABC123":{"id":"ABC123","name":"` + strings.Repeat("x", 4096) + `"}}`)}
	srv := httptest.NewServer(f)
	defer srv.Close()

	c, err := jsonbin.New("bin1", "k", time.Second,
		jsonbin.WithBaseURL(srv.URL+"/b/"), jsonbin.WithMaxResponseBytes(1024))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.FetchCollection(context.Background()); !errors.Is(err, store.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}

	roomy, err := jsonbin.New("bin1", "k", time.Second,
		jsonbin.WithBaseURL(srv.URL+"/b/"), jsonbin.WithMaxResponseBytes(1<<20))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := roomy.FetchCollection(context.Background()); err != nil {
		t.Errorf("fetch under the cap: %v", err)
	}
}

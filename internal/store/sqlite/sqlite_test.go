package sqlite_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/playperu/secretdraw/internal/store"
	"github.com/playperu/secretdraw/internal/store/sqlite"
)

func openStore(t *testing.T, record string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), ":memory:", record)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFetchEmpty(t *testing.T) {
	s := openStore(t, "")

	c, err := s.FetchCollection(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if c == nil || len(c) != 0 {
		t.Errorf("expected empty collection, got %v", c)
	}
}

func TestReplaceOverwrites(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, "games")

	first := store.Collection{
		"AAA111": json.RawMessage(`{"id":"AAA111"}`),
		"BBB222": json.RawMessage(`{"id":"BBB222"}`),
	}
	if err := s.ReplaceCollection(ctx, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	second := store.Collection{"CCC333": json.RawMessage(`{"id":"CCC333","note":"x"}`)}
	if err := s.ReplaceCollection(ctx, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	got, err := s.FetchCollection(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected whole-record overwrite, got %d entries", len(got))
	}

	var doc map[string]string
	if err := json.Unmarshal(got["CCC333"], &doc); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if doc["note"] != "x" {
		t.Errorf("entry = %v", doc)
	}
}

func TestCheck(t *testing.T) {
	s := openStore(t, "")
	if err := s.Check(context.Background()); err != nil {
		t.Errorf("check: %v", err)
	}
}

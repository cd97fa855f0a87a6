// Package store defines the contract for the remote record that holds every
// game. Backends expose only whole-collection reads and unconditional
// whole-collection writes: there is no version token, no compare-and-swap
// and no partial update, so the last write to land wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrUnavailable reports a transport failure or an unexpected backend status.
	ErrUnavailable = errors.New("store unavailable")
	// ErrAuth reports rejected credentials.
	ErrAuth = errors.New("store rejected credentials")
)

// Collection maps a game id to its raw record. Entries are kept raw so
// fields this client does not know about survive a rewrite.
type Collection map[string]json.RawMessage

// Client is a generic whole-record store with no game knowledge.
type Client interface {
	// FetchCollection returns the latest durable snapshot. A record that was
	// never written yields an empty, non-nil collection.
	FetchCollection(ctx context.Context) (Collection, error)
	// ReplaceCollection overwrites the record with c.
	ReplaceCollection(ctx context.Context, c Collection) error
}

// Clone returns a deep copy of c.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for k, v := range c {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// Decode parses a stored document into a collection. Empty and null
// documents decode as an empty collection.
func Decode(data []byte) (Collection, error) {
	c := Collection{}
	if len(data) == 0 || string(data) == "null" {
		return c, nil
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c == nil {
		c = Collection{}
	}
	return c, nil
}

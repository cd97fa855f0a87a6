package secretdraw

import (
	"fmt"
	"strings"
	"time"
)

const defaultCreator = "Admin"

// NewGameRequest carries the input of the game creation form.
type NewGameRequest struct {
	Name         string   `json:"name"`
	CreatedBy    string   `json:"createdBy"`
	Participants []string `json:"participants"`
	Objects      []string `json:"objects"`
	Locations    []string `json:"locations"`
}

// NewGame validates req and builds an active game with no players.
// Blank pool entries are dropped; every pool must keep at least one
// entry and entries must be distinct within a pool.
func NewGame(id string, req NewGameRequest, now time.Time) (Game, error) {
	participants, err := cleanPool("participants", req.Participants)
	if err != nil {
		return Game{}, err
	}
	objects, err := cleanPool("objects", req.Objects)
	if err != nil {
		return Game{}, err
	}
	locations, err := cleanPool("locations", req.Locations)
	if err != nil {
		return Game{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Partida " + id
	}
	createdBy := strings.TrimSpace(req.CreatedBy)
	if createdBy == "" {
		createdBy = defaultCreator
	}

	return Game{
		ID:           id,
		Name:         name,
		CreatedBy:    createdBy,
		CreatedAt:    now.UTC(),
		Participants: participants,
		Objects:      objects,
		Locations:    locations,
		Players:      []Player{},
		IsActive:     true,
	}, nil
}

func cleanPool(field string, values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			return nil, fmt.Errorf("%w: duplicate %s entry %q", ErrInvalidGame, field, v)
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidGame, field)
	}
	return out, nil
}

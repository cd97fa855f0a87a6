// Package secretdraw defines the core domain types of the secret assignment
// game. It has no external dependencies beyond the standard library.
package secretdraw

import (
	"encoding/json"
	"time"
)

// Game is one record of the shared collection, keyed by its ID.
type Game struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	Participants []string  `json:"participants"`
	Objects      []string  `json:"objects"`
	Locations    []string  `json:"locations"`
	Players      []Player  `json:"players"`
	IsActive     bool      `json:"isActive"`
}

// Player is a participant that joined a game and holds one assignment.
type Player struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Participant string    `json:"participant"`
	Object      string    `json:"object"`
	Location    string    `json:"location"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// Assignment is the secret (participant, object, location) triple.
type Assignment struct {
	Participant string `json:"participant"`
	Object      string `json:"object"`
	Location    string `json:"location"`
}

// Pools are the candidate values a game draws assignments from.
type Pools struct {
	Participants []string
	Objects      []string
	Locations    []string
}

// UnmarshalJSON decodes a game record. Records written without isActive
// are treated as active, and missing sequences decode as empty slices.
func (g *Game) UnmarshalJSON(data []byte) error {
	type plain Game
	aux := struct {
		*plain
		IsActive *bool `json:"isActive"`
	}{plain: (*plain)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	g.IsActive = aux.IsActive == nil || *aux.IsActive
	if g.Participants == nil {
		g.Participants = []string{}
	}
	if g.Objects == nil {
		g.Objects = []string{}
	}
	if g.Locations == nil {
		g.Locations = []string{}
	}
	if g.Players == nil {
		g.Players = []Player{}
	}
	return nil
}

// Pools returns the game's assignment pools.
func (g Game) Pools() Pools {
	return Pools{Participants: g.Participants, Objects: g.Objects, Locations: g.Locations}
}

// Capacity is the number of players the game can hold: the smallest pool.
func (g Game) Capacity() int {
	return min(len(g.Participants), len(g.Objects), len(g.Locations))
}

// AvailableSlots is the capacity left for new players, never negative.
func (g Game) AvailableSlots() int {
	return max(g.Capacity()-len(g.Players), 0)
}

// HasPlayerNamed reports whether a current player uses exactly name.
func (g Game) HasPlayerNamed(name string) bool {
	for _, p := range g.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// PlayerByID returns the player with the given id.
func (g Game) PlayerByID(id string) (Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// WithPlayer returns a copy of g with p appended. The receiver's player
// slice is never shared with the result.
func (g Game) WithPlayer(p Player) Game {
	players := make([]Player, 0, len(g.Players)+1)
	players = append(players, g.Players...)
	g.Players = append(players, p)
	return g
}

// Assignment returns the player's secret triple.
func (p Player) Assignment() Assignment {
	return Assignment{Participant: p.Participant, Object: p.Object, Location: p.Location}
}

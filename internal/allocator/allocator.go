// Package allocator draws collision-free assignments. It performs no I/O.
package allocator

import (
	"fmt"
	"math/rand/v2"

	"github.com/playperu/secretdraw/internal/secretdraw"
)

// Rand is the source of uniform draws; *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Default draws from the goroutine-safe top-level math/rand/v2 source.
var Default Rand = globalRand{}

// Allocate returns a triple whose every value is unused by players. Each
// dimension is drawn uniformly and independently from its free values.
// It fails with ErrPoolExhausted when any pool has no free value left.
func Allocate(pools secretdraw.Pools, players []secretdraw.Player, r Rand) (secretdraw.Assignment, error) {
	if r == nil {
		r = Default
	}
	used := usage(players)

	participant, err := draw("participants", pools.Participants, used.participants, r)
	if err != nil {
		return secretdraw.Assignment{}, err
	}
	object, err := draw("objects", pools.Objects, used.objects, r)
	if err != nil {
		return secretdraw.Assignment{}, err
	}
	location, err := draw("locations", pools.Locations, used.locations, r)
	if err != nil {
		return secretdraw.Assignment{}, err
	}
	return secretdraw.Assignment{Participant: participant, Object: object, Location: location}, nil
}

// Free reports whether no player already holds any value of a.
func Free(a secretdraw.Assignment, players []secretdraw.Player) bool {
	for _, p := range players {
		if p.Participant == a.Participant || p.Object == a.Object || p.Location == a.Location {
			return false
		}
	}
	return true
}

// Available returns the unused values of each pool, in pool order.
func Available(pools secretdraw.Pools, players []secretdraw.Player) (participants, objects, locations []string) {
	used := usage(players)
	return free(pools.Participants, used.participants),
		free(pools.Objects, used.objects),
		free(pools.Locations, used.locations)
}

type usedValues struct {
	participants map[string]struct{}
	objects      map[string]struct{}
	locations    map[string]struct{}
}

func usage(players []secretdraw.Player) usedValues {
	u := usedValues{
		participants: make(map[string]struct{}, len(players)),
		objects:      make(map[string]struct{}, len(players)),
		locations:    make(map[string]struct{}, len(players)),
	}
	for _, p := range players {
		u.participants[p.Participant] = struct{}{}
		u.objects[p.Object] = struct{}{}
		u.locations[p.Location] = struct{}{}
	}
	return u
}

func free(pool []string, taken map[string]struct{}) []string {
	out := make([]string, 0, len(pool))
	for _, v := range pool {
		if _, ok := taken[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

func draw(name string, pool []string, taken map[string]struct{}, r Rand) (string, error) {
	candidates := free(pool, taken)
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no %s left", secretdraw.ErrPoolExhausted, name)
	}
	return candidates[r.IntN(len(candidates))], nil
}

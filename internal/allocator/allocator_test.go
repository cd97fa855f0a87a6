package allocator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/playperu/secretdraw/internal/secretdraw"
)

func pools(n int) secretdraw.Pools {
	var p secretdraw.Pools
	for i := range n {
		p.Participants = append(p.Participants, fmt.Sprintf("participant-%d", i))
		p.Objects = append(p.Objects, fmt.Sprintf("object-%d", i))
		p.Locations = append(p.Locations, fmt.Sprintf("location-%d", i))
	}
	return p
}

func player(a secretdraw.Assignment, name string) secretdraw.Player {
	return secretdraw.Player{ID: name, Name: name, Participant: a.Participant, Object: a.Object, Location: a.Location}
}

func TestAllocateFillsEveryPool(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for _, n := range []int{1, 2, 5, 12} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			p := pools(n)
			var players []secretdraw.Player

			for i := range n {
				a, err := Allocate(p, players, r)
				if err != nil {
					t.Fatalf("allocation %d of %d failed: %v", i+1, n, err)
				}
				if !Free(a, players) {
					t.Fatalf("allocation %d reuses a value: %+v", i+1, a)
				}
				players = append(players, player(a, fmt.Sprint(i)))
			}

			_, err := Allocate(p, players, r)
			if !errors.Is(err, secretdraw.ErrPoolExhausted) {
				t.Fatalf("allocation past capacity: err = %v, want ErrPoolExhausted", err)
			}
		})
	}
}

func TestAllocateExhaustedDoesNotMutate(t *testing.T) {
	p := secretdraw.Pools{
		Participants: []string{"A"},
		Objects:      []string{"X", "Y"},
		Locations:    []string{"P", "Q"},
	}
	players := []secretdraw.Player{{Name: "Ana", Participant: "A", Object: "X", Location: "P"}}
	before := slices.Clone(players)
	poolsBefore := slices.Clone(p.Participants)

	_, err := Allocate(p, players, rand.New(rand.NewPCG(3, 4)))
	if !errors.Is(err, secretdraw.ErrPoolExhausted) {
		t.Fatalf("err = %v, want ErrPoolExhausted", err)
	}
	if !slices.Equal(players, before) || !slices.Equal(p.Participants, poolsBefore) {
		t.Error("allocator mutated its input")
	}
}

func TestAllocateMismatchedPools(t *testing.T) {
	p := secretdraw.Pools{
		Participants: []string{"A", "B", "C"},
		Objects:      []string{"X"},
		Locations:    []string{"P", "Q", "R"},
	}
	r := rand.New(rand.NewPCG(5, 6))

	a, err := Allocate(p, nil, r)
	if err != nil {
		t.Fatalf("first allocation: %v", err)
	}
	_, err = Allocate(p, []secretdraw.Player{player(a, "ana")}, r)
	if !errors.Is(err, secretdraw.ErrPoolExhausted) {
		t.Fatalf("second allocation err = %v, want ErrPoolExhausted", err)
	}
}

func TestAllocateLastTripleIsForced(t *testing.T) {
	p := secretdraw.Pools{
		Participants: []string{"A", "B"},
		Objects:      []string{"X", "Y"},
		Locations:    []string{"P", "Q"},
	}
	alice := secretdraw.Player{Name: "Alice", Participant: "B", Object: "X", Location: "Q"}

	for seed := range uint64(20) {
		a, err := Allocate(p, []secretdraw.Player{alice}, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		want := secretdraw.Assignment{Participant: "A", Object: "Y", Location: "P"}
		if a != want {
			t.Fatalf("seed %d: got %+v, want %+v", seed, a, want)
		}
	}
}

// countingRand records each bound it is asked for and always picks 0.
type countingRand struct{ bounds []int }

func (c *countingRand) IntN(n int) int {
	c.bounds = append(c.bounds, n)
	return 0
}

func TestAllocateDrawsEachDimensionIndependently(t *testing.T) {
	p := secretdraw.Pools{
		Participants: []string{"A", "B", "C"},
		Objects:      []string{"X", "Y"},
		Locations:    []string{"P", "Q", "R", "S"},
	}
	players := []secretdraw.Player{{Participant: "A", Object: "Y", Location: "R"}}
	r := &countingRand{}

	a, err := Allocate(p, players, r)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if !slices.Equal(r.bounds, []int{2, 1, 3}) {
		t.Errorf("draw bounds = %v, want [2 1 3]", r.bounds)
	}
	want := secretdraw.Assignment{Participant: "B", Object: "X", Location: "P"}
	if a != want {
		t.Errorf("got %+v, want %+v", a, want)
	}
}

func TestAllocateIsRoughlyUniform(t *testing.T) {
	p := pools(4)
	r := rand.New(rand.NewPCG(7, 8))
	counts := map[string]int{}

	const draws = 4000
	for range draws {
		a, err := Allocate(p, nil, r)
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
		counts[a.Participant]++
	}
	for _, v := range p.Participants {
		if c := counts[v]; c < draws/4-200 || c > draws/4+200 {
			t.Errorf("%s drawn %d times out of %d", v, c, draws)
		}
	}
}

func TestAvailable(t *testing.T) {
	p := pools(3)
	players := []secretdraw.Player{{Participant: "participant-1", Object: "object-0", Location: "location-2"}}

	ps, os, ls := Available(p, players)
	if !slices.Equal(ps, []string{"participant-0", "participant-2"}) {
		t.Errorf("participants = %v", ps)
	}
	if !slices.Equal(os, []string{"object-1", "object-2"}) {
		t.Errorf("objects = %v", os)
	}
	if !slices.Equal(ls, []string{"location-0", "location-1"}) {
		t.Errorf("locations = %v", ls)
	}
}

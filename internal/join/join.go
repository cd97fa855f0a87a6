// Package join coordinates a player joining a game over a store that only
// offers unconditional whole-collection writes.
//
// Each attempt moves through Idle → Loading → Validating → Allocating →
// Committing and ends Joined or Failed. The commit re-validates against
// the latest snapshot and appends only the new player. With verification
// on, the coordinator reads the game back after writing; a missing player
// means a concurrent writer overwrote the append, and the commit is retried
// up to MaxAttempts times before failing with ErrLostUpdate.
package join

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/secretdraw/internal/allocator"
	"github.com/playperu/secretdraw/internal/secretdraw"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateValidating
	StateAllocating
	StateCommitting
	StateJoined
	StateFailed
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StateLoading:    "loading",
	StateValidating: "validating",
	StateAllocating: "allocating",
	StateCommitting: "committing",
	StateJoined:     "joined",
	StateFailed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Error is the typed failure of a join attempt. State is the state the
// attempt was in when it failed; Err unwraps to the failure kind.
type Error struct {
	State State
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("join failed while %s: %v", e.State, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Transition is reported to an Observer on every state change.
type Transition struct {
	GameID  string
	From    State
	To      State
	Attempt int
}

// Games is the part of the repository the coordinator needs.
type Games interface {
	GetGame(ctx context.Context, id string) (secretdraw.Game, error)
	Update(ctx context.Context, id string, fn func(*secretdraw.Game) error) (secretdraw.Game, error)
}

type Options struct {
	// MaxAttempts bounds the commit attempts. Values below 1 mean 1.
	MaxAttempts int
	// Verify reads the game back after each commit to detect lost updates.
	Verify bool
	// RetryDelay is waited between commit attempts.
	RetryDelay time.Duration
	// Observer, if set, receives every state transition.
	Observer func(Transition)
	// Rand drives the allocator. It must be safe for concurrent use when
	// the coordinator is shared; nil means allocator.Default.
	Rand allocator.Rand
}

// DefaultOptions is the hardened configuration.
var DefaultOptions = Options{
	MaxAttempts: 3,
	Verify:      true,
	RetryDelay:  50 * time.Millisecond,
}

type Coordinator struct {
	games  Games
	logger *slog.Logger
	opts   Options

	now         func() time.Time
	newPlayerID func() string
}

func New(games Games, logger *slog.Logger, opts Options) *Coordinator {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Rand == nil {
		opts.Rand = allocator.Default
	}
	return &Coordinator{
		games:       games,
		logger:      logger,
		opts:        opts,
		now:         time.Now,
		newPlayerID: uuid.NewString,
	}
}

// Join adds a player called name to the game and returns the stored player
// with its secret assignment. Failures are returned as *Error.
//
// A nil error means the write landed and, with Verify set, that the player
// was present on read-back. It does not mean the player is still stored:
// the store has no conditional write, so a stale writer that lands after the
// read-back drops the player. Under heavy contention on one game many
// reported joins can be lost this way.
func (c *Coordinator) Join(ctx context.Context, gameID, name string) (secretdraw.Player, error) {
	a := &attempt{c: c, gameID: gameID}
	name = strings.TrimSpace(name)

	a.to(StateLoading)
	game, err := c.games.GetGame(ctx, gameID)
	if err != nil {
		return a.fail(err)
	}

	a.to(StateValidating)
	if name == "" {
		return a.fail(secretdraw.ErrNameRequired)
	}
	if err := admit(game, name); err != nil {
		return a.fail(err)
	}

	a.to(StateAllocating)
	assignment, err := allocator.Allocate(game.Pools(), game.Players, c.opts.Rand)
	if err != nil {
		return a.fail(err)
	}

	player := secretdraw.Player{
		ID:          c.newPlayerID(),
		Name:        name,
		Participant: assignment.Participant,
		Object:      assignment.Object,
		Location:    assignment.Location,
		JoinedAt:    c.now().UTC(),
	}

	for a.n = 1; a.n <= c.opts.MaxAttempts; a.n++ {
		a.to(StateCommitting)
		if a.n > 1 {
			if err := sleep(ctx, c.opts.RetryDelay); err != nil {
				return a.fail(err)
			}
		}

		if _, err := c.games.Update(ctx, gameID, func(g *secretdraw.Game) error {
			return c.apply(g, &player)
		}); err != nil {
			return a.fail(err)
		}

		if !c.opts.Verify {
			return a.joined(player)
		}

		stored, err := c.games.GetGame(ctx, gameID)
		if err != nil {
			// The write itself was accepted; only the read-back failed.
			c.logger.Warn("join verification read failed",
				"game_id", gameID, "player_id", player.ID, "attempt", a.n, "error", err)
			return a.joined(player)
		}
		if got, ok := stored.PlayerByID(player.ID); ok && got.Assignment() == player.Assignment() {
			return a.joined(player)
		}

		c.logger.Warn("lost update detected",
			"game_id", gameID, "player_id", player.ID, "attempt", a.n, "max_attempts", c.opts.MaxAttempts)
	}
	a.n = c.opts.MaxAttempts
	return a.fail(secretdraw.ErrLostUpdate)
}

// apply is the minimal commit mutation: it re-checks the latest snapshot,
// redraws the assignment if a concurrent join took one of its values, and
// appends the player.
func (c *Coordinator) apply(g *secretdraw.Game, p *secretdraw.Player) error {
	if existing, ok := g.PlayerByID(p.ID); ok {
		// An earlier attempt landed after all.
		*p = existing
		return nil
	}
	if err := admit(*g, p.Name); err != nil {
		return err
	}
	if !allocator.Free(p.Assignment(), g.Players) {
		a, err := allocator.Allocate(g.Pools(), g.Players, c.opts.Rand)
		if err != nil {
			return err
		}
		p.Participant, p.Object, p.Location = a.Participant, a.Object, a.Location
	}
	*g = g.WithPlayer(*p)
	return nil
}

// admit checks name uniqueness and remaining capacity.
func admit(g secretdraw.Game, name string) error {
	if g.HasPlayerNamed(name) {
		return fmt.Errorf("%w: %q", secretdraw.ErrNameTaken, name)
	}
	if g.AvailableSlots() == 0 {
		return secretdraw.ErrGameFull
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// attempt tracks the state of one Join call.
type attempt struct {
	c      *Coordinator
	gameID string
	state  State
	n      int
}

func (a *attempt) to(next State) {
	prev := a.state
	a.state = next
	a.c.logger.Debug("join transition", "game_id", a.gameID, "from", prev.String(), "to", next.String(), "attempt", a.n)
	if a.c.opts.Observer != nil {
		a.c.opts.Observer(Transition{GameID: a.gameID, From: prev, To: next, Attempt: a.n})
	}
}

func (a *attempt) fail(err error) (secretdraw.Player, error) {
	at := a.state
	a.to(StateFailed)
	return secretdraw.Player{}, &Error{State: at, Err: err}
}

func (a *attempt) joined(p secretdraw.Player) (secretdraw.Player, error) {
	a.to(StateJoined)
	return p, nil
}

// Package screen models which view a client is on as a state machine.
//
// A Screen is one of Listing, Creating, Joining, Playing or Administering.
// Transition is pure: it maps the current screen and an event to the next
// screen, or returns ErrInvalidTransition.
package screen

import (
	"errors"
	"fmt"

	"github.com/playperu/secretdraw/internal/secretdraw"
)

var ErrInvalidTransition = errors.New("invalid screen transition")

type Screen interface {
	screen()
	Name() string
}

// Listing shows the open games.
type Listing struct{}

// Creating shows the new game form.
type Creating struct{}

// Joining asks for a name before joining GameID.
type Joining struct{ GameID string }

// Playing shows Player its secret assignment in GameID.
type Playing struct {
	GameID string
	Player secretdraw.Player
}

// Administering shows the admin tools for GameID.
type Administering struct{ GameID string }

func (Listing) screen()       {}
func (Creating) screen()      {}
func (Joining) screen()       {}
func (Playing) screen()       {}
func (Administering) screen() {}

func (Listing) Name() string       { return "listing" }
func (Creating) Name() string      { return "creating" }
func (Joining) Name() string       { return "joining" }
func (Playing) Name() string       { return "playing" }
func (Administering) Name() string { return "administering" }

type Event interface {
	event()
	Name() string
}

type (
	StartCreate struct{}
	SelectGame  struct{ GameID string }
	OpenAdmin   struct{ GameID string }
	GameCreated struct{ GameID string }
	Joined      struct{ Player secretdraw.Player }
	ResetDone   struct{}
	Back        struct{}
	Exit        struct{}
)

func (StartCreate) event() {}
func (SelectGame) event()  {}
func (OpenAdmin) event()   {}
func (GameCreated) event() {}
func (Joined) event()      {}
func (ResetDone) event()   {}
func (Back) event()        {}
func (Exit) event()        {}

func (StartCreate) Name() string { return "start_create" }
func (SelectGame) Name() string  { return "select_game" }
func (OpenAdmin) Name() string   { return "open_admin" }
func (GameCreated) Name() string { return "game_created" }
func (Joined) Name() string      { return "joined" }
func (ResetDone) Name() string   { return "reset_done" }
func (Back) Name() string        { return "back" }
func (Exit) Name() string        { return "exit" }

// Start is the screen a new session opens on.
func Start() Screen { return Listing{} }

func Transition(s Screen, e Event) (Screen, error) {
	switch cur := s.(type) {
	case Listing:
		switch ev := e.(type) {
		case StartCreate:
			return Creating{}, nil
		case SelectGame:
			return Joining{GameID: ev.GameID}, nil
		case OpenAdmin:
			return Administering{GameID: ev.GameID}, nil
		}
	case Creating:
		switch ev := e.(type) {
		case GameCreated:
			return Joining{GameID: ev.GameID}, nil
		case Back:
			return Listing{}, nil
		}
	case Joining:
		switch ev := e.(type) {
		case Joined:
			return Playing{GameID: cur.GameID, Player: ev.Player}, nil
		case Back:
			return Listing{}, nil
		}
	case Playing:
		if _, ok := e.(Exit); ok {
			return Listing{}, nil
		}
	case Administering:
		switch e.(type) {
		case Back, ResetDone:
			return Listing{}, nil
		}
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e.Name(), s.Name())
}

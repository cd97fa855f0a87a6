package join

import (
	"errors"

	"github.com/playperu/secretdraw/internal/secretdraw"
	"github.com/playperu/secretdraw/internal/store"
)

var messages = []struct {
	err error
	msg string
}{
	{secretdraw.ErrGameNotFound, "Game not found."},
	{secretdraw.ErrNameRequired, "Enter your name."},
	{secretdraw.ErrNameTaken, "That name is already in use in this game."},
	{secretdraw.ErrGameFull, "This game is full."},
	{secretdraw.ErrPoolExhausted, "No more assignments are available in this game."},
	{secretdraw.ErrLostUpdate, "Someone joined at the same moment and your seat could not be saved. Try again."},
	{secretdraw.ErrInvalidGame, "A game needs at least one participant, object and location, without repeats."},
	{store.ErrAuth, "The game store rejected our credentials."},
	{store.ErrUnavailable, "The game store is unreachable right now. Try again."},
}

// Message returns the user-facing reason for a failure. Every failure kind
// has its own message.
func Message(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Could not join the game. Try again."
}

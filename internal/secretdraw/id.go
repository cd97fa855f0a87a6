package secretdraw

import (
	"math/rand/v2"
	"regexp"
)

var gameIDPattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)

const (
	idLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idDigits  = "0123456789"
)

// NewGameID returns a random id of three capital letters and three digits,
// e.g. "QKD042". Uniqueness against the collection is not checked.
func NewGameID() string {
	b := make([]byte, 6)
	for i := range 3 {
		b[i] = idLetters[rand.IntN(len(idLetters))]
	}
	for i := 3; i < 6; i++ {
		b[i] = idDigits[rand.IntN(len(idDigits))]
	}
	return string(b)
}

// ValidGameID reports whether id has the game id format.
func ValidGameID(id string) bool {
	return gameIDPattern.MatchString(id)
}

package secretdraw

import "errors"

// Domain failures. Store failures live in package store.
var (
	ErrGameNotFound  = errors.New("game not found")
	ErrNameTaken     = errors.New("player name already taken")
	ErrNameRequired  = errors.New("player name is required")
	ErrGameFull      = errors.New("game is full")
	ErrPoolExhausted = errors.New("assignment pool exhausted")
	ErrLostUpdate    = errors.New("join was overwritten by a concurrent write")
	ErrInvalidGame   = errors.New("invalid game")
)

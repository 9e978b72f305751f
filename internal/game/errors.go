package game

import "errors"

var (
	ErrActorNotFound  = errors.New("actor not found")
	ErrActorExists    = errors.New("actor already exists")
	ErrSourceNotFound = errors.New("loot source not found")
	ErrOutOfRange     = errors.New("loot source is out of range")
	ErrNothingAwarded = errors.New("nothing to award")
)

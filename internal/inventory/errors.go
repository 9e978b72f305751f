package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrSourceEmpty        = errors.New("source slot is empty")
	ErrUnknownItem        = errors.New("unknown item")
	ErrEquipIncompatible  = errors.New("item cannot be equipped in that slot")
	ErrStackFull          = errors.New("stack is full")
	ErrNoRoomForDisplaced = errors.New("no room for displaced item")
)

// Side names the end of a transfer an error refers to.
type Side string

const (
	SideSource      Side = "source"
	SideDestination Side = "destination"
)

// MoveError is a rejected transfer. It wraps one of the sentinel errors above
// so callers can match with errors.Is.
type MoveError struct {
	Side  Side
	Kind  Kind
	Index int
	Err   error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("%s %s slot %d: %v", e.Side, e.Kind, e.Index, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func rejectAt(side Side, c *Container, index int, err error) *MoveError {
	me := &MoveError{Side: side, Index: index, Err: err}
	if c != nil {
		me.Kind = c.kind
	}
	return me
}

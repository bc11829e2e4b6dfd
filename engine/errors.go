package engine

import (
	"errors"
	"fmt"
)

// Error classes. Every engine error matches exactly one of them through
// errors.Is.
var (
	// ErrNotFound reports a player, NPC, location or item that is absent
	// or mis-referenced by world content.
	ErrNotFound = errors.New("not found")

	// ErrPrecondition reports an expected, user-recoverable refusal.
	ErrPrecondition = errors.New("precondition failed")
)

// Error is a named engine condition belonging to one error class.
type Error struct {
	class error
	msg   string
}

func (e *Error) Error() string { return e.msg }

// Is matches the error's class.
func (e *Error) Is(target error) bool { return target == e.class }

// Named conditions.
var (
	ErrNoVehicle      = &Error{ErrPrecondition, "there is no boat here"}
	ErrNoConnection   = &Error{ErrPrecondition, "you can't go that way"}
	ErrNoEntryPoint   = &Error{ErrNotFound, "the destination has no entry point"}
	ErrBrokenTopology = &Error{ErrNotFound, "the way leads somewhere that does not exist"}
	ErrNotHere        = &Error{ErrNotFound, "they are not here"}
	ErrNoConsumable   = &Error{ErrPrecondition, "you have nothing to consume"}
	ErrFullHealth     = &Error{ErrPrecondition, "you are already at full health"}
	ErrNoFruitHere    = &Error{ErrPrecondition, "there is no fruit here"}
	ErrNoPendingOffer = &Error{ErrPrecondition, "nothing is waiting for an answer"}
	ErrNoReflexCheck  = &Error{ErrPrecondition, "no reflex check is running"}
	ErrReflexPending  = &Error{ErrPrecondition, "answer the reflex check first"}
	ErrNotInCombat    = &Error{ErrPrecondition, "you are not fighting anyone"}
	ErrInCombat       = &Error{ErrPrecondition, "you are in the middle of a fight"}
	ErrGameOver       = &Error{ErrPrecondition, "the game is over"}
)

// MissingKeyError reports a Location that stays closed until the player
// holds its key object.
type MissingKeyError struct {
	KeyID          string
	KeyName        string
	KeyDescription string
}

func (e *MissingKeyError) Error() string {
	if e.KeyDescription != "" {
		return fmt.Sprintf("you need the %s to go there (%s)", e.KeyName, e.KeyDescription)
	}
	return fmt.Sprintf("you need the %s to go there", e.KeyName)
}

// Is matches ErrPrecondition.
func (e *MissingKeyError) Is(target error) bool { return target == ErrPrecondition }

package game

import "errors"

// Input rejected. The session is left unchanged.
var (
	ErrUnknownScreen   = errors.New("unknown screen")
	ErrUnknownEntry    = errors.New("unknown catalog entry")
	ErrUnknownOption   = errors.New("unknown option")
	ErrUnknownLocation = errors.New("unknown location")
	ErrUnknownTool     = errors.New("unknown tool")
	ErrWrongScreen     = errors.New("action not available on this screen")
	ErrSlotFull        = errors.New("selection slot is full")
	ErrGateClosed      = errors.New("cannot advance yet")
	ErrNoDialogue      = errors.New("no conversation in progress")
	ErrNotCollected    = errors.New("item not collected")
	ErrNoEntry         = errors.New("no case selected")
)

// ErrInsufficientResources is returned when an action costs more than the
// session has left.
var ErrInsufficientResources = errors.New("not enough energy")

// ErrFrozen is returned for every action after the game was submitted.
var ErrFrozen = errors.New("game already submitted")

package game

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors wrap one of these so callers can
// branch on either the exact failure or its class.
var (
	ErrValidation   = errors.New("validation failed")
	ErrPrecondition = errors.New("precondition failed")
	ErrExhausted    = errors.New("resource exhausted")
	ErrNotFound     = errors.New("not found")
)

// NumberPool errors.
var (
	ErrPoolExhausted = fmt.Errorf("%w: no numbers left to draw", ErrExhausted)
	ErrAlreadyDrawn  = fmt.Errorf("%w: number already drawn", ErrPrecondition)
	ErrOutOfRange    = fmt.Errorf("%w: number outside pool range", ErrValidation)
)

// Pattern catalog errors.
var (
	ErrPatternExists   = fmt.Errorf("%w: pattern id already registered", ErrPrecondition)
	ErrPatternNotFound = fmt.Errorf("%w: unknown pattern id", ErrNotFound)
)

// Card generation.
var ErrCardGeneration = fmt.Errorf("%w: card generation retry budget exceeded", ErrExhausted)

// Room state machine errors.
var (
	ErrRoomFull            = fmt.Errorf("%w: room is full", ErrPrecondition)
	ErrAlreadyStarted      = fmt.Errorf("%w: game has already started", ErrPrecondition)
	ErrNotHost             = fmt.Errorf("%w: only the host can do that", ErrPrecondition)
	ErrInsufficientPlayers = fmt.Errorf("%w: not enough players to start", ErrPrecondition)
	ErrNotActive           = fmt.Errorf("%w: game is not active", ErrPrecondition)
	ErrNotWaiting          = fmt.Errorf("%w: game is not in the waiting phase", ErrPrecondition)
	ErrNotMember           = fmt.Errorf("%w: player is not in this room", ErrNotFound)
	ErrRoomNotFound        = fmt.Errorf("%w: unknown room", ErrNotFound)
	ErrPatternNotMatched   = fmt.Errorf("%w: pattern not matched on your card", ErrPrecondition)
	ErrAlreadyWon          = fmt.Errorf("%w: you have already won this game", ErrPrecondition)
	ErrNumberNotDrawn      = fmt.Errorf("%w: that number has not been drawn", ErrPrecondition)
	ErrCellOutOfBounds     = fmt.Errorf("%w: cell is outside the 5x5 grid", ErrValidation)
)

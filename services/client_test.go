package services

import (
	"errors"
	"testing"

	"github.com/bellapacxx/bingo-rooms/game"
)

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{errBadMessage, "validation"},
		{errRowColRequired, "validation"},
		{errPatternID, "validation"},
		{errBadSettings, "validation"},
		{game.ErrCellOutOfBounds, "validation"},
		{game.ErrNotHost, "precondition"},
		{game.ErrAlreadyStarted, "precondition"},
		{game.ErrPoolExhausted, "exhausted"},
		{game.ErrRoomNotFound, "not_found"},
		{errors.New("disk on fire"), "internal"},
	}
	for _, c := range cases {
		if got := errorKind(c.err); got != c.want {
			t.Errorf("errorKind(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

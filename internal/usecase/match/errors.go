package match

import (
	"github.com/pkg/errors"
)

var (
	ErrGameOver        = errors.New("game is over")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrNotStarted      = errors.New("game is not started")
	ErrAlreadyStarted  = errors.New("game is already started")
	ErrFleetIncomplete = errors.New("fleet is incomplete")
	ErrNotInFleet      = errors.New("ship length is not in the fleet")
	ErrInvalidSettings = errors.New("invalid match settings")
)

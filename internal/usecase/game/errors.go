package game

import (
	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/kiryu-dev/battleship/internal/usecase/match"
	"github.com/pkg/errors"
)

var (
	errUnexpectedMessageType = errors.New("unexpected message type")
)

// isPlayerGone reports whether err only means the player disconnected.
func isPlayerGone(err error) bool {
	return errors.Is(err, domain.ErrConnectionClosed)
}

// isRejectable reports whether the shot error is answered to the player
// instead of ending the connection.
func isRejectable(err error) bool {
	return errors.Is(err, domain.ErrOutOfBounds) || errors.Is(err, match.ErrNotYourTurn)
}

package domain

import (
	"github.com/pkg/errors"
)

// Player is a connected human bound to one match.
type Player struct {
	key       string
	matchID   string
	playerCli Client
}

func NewPlayer(matchID string, cli Client) Player {
	return Player{
		key:       cli.Key(),
		matchID:   matchID,
		playerCli: cli,
	}
}

func (p Player) Key() string {
	return p.key
}

func (p Player) MatchID() string {
	return p.matchID
}

func (p Player) SendMessage(msg Message) error {
	return p.playerCli.WriteMessage(msg)
}

func (p Player) ReceiveMessage() (Message, error) {
	return p.playerCli.ReadMessage()
}

// RejectPlacement tells the player why the fleet was not accepted.
func (p Player) RejectPlacement(cause error) error {
	return p.reject(PlacementRejected, cause)
}

func (p Player) RejectShot(cause error) error {
	return p.reject(ShotRejected, cause)
}

func (p Player) reject(t messageType, cause error) error {
	err := p.playerCli.WriteMessage(Message{
		Type:    t,
		Payload: RejectedPayload{Reason: cause.Error()},
	})
	if err != nil {
		return errors.WithMessage(err, "send rejection")
	}
	return nil
}

package domain

import (
	"github.com/pkg/errors"
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrEmptyMessage     = errors.New("empty message")
)

const (
	ClientKeyHeader = "X-Client-Key"
)

type messageType byte

const (
	StartGame = messageType(iota)
	PlaceFleet
	PlacementRejected
	RequestShot
	Shot
	ShotRejected
	ShotResult
	GameOver
	SwitchServer
)

type Message struct {
	Type    messageType
	Payload any
}

// PlaceFleetPayload carries the player's ships. An empty list asks the
// server to place the fleet at random.
type PlaceFleetPayload struct {
	Ships []Ship
}

type StartGamePayload struct {
	MatchID  string
	Variant  Variant
	Opponent OpponentKind
	Fleet    []int
	Player   BoardView
	Enemy    BoardView
}

type RejectedPayload struct {
	Reason string
}

type ShotPayload struct {
	Target Coordinate
}

type ShotResultPayload struct {
	Attacker        Side
	Target          Coordinate
	Result          HitResult
	Current         Side
	Player          BoardView
	Enemy           BoardView
	IsShotRequested bool
	Winner          *Side
}

type GameOverPayload struct {
	Winner     Side
	GameResult string
}

type SwitchServerPayload struct {
	MasterServer string
}

type ShotResultPayloadOption func(p *ShotResultPayload)

func RequestShotBack() ShotResultPayloadOption {
	return func(p *ShotResultPayload) {
		p.IsShotRequested = true
	}
}

func WithWinner(winner Side) ShotResultPayloadOption {
	return func(p *ShotResultPayload) {
		p.Winner = &winner
	}
}

func WithBoards(player, enemy BoardView) ShotResultPayloadOption {
	return func(p *ShotResultPayload) {
		p.Player = player
		p.Enemy = enemy
	}
}

type Client interface {
	WriteMessage(msg Message) error
	ReadMessage() (Message, error)
	Key() string
}

package match

import (
	"github.com/kiryu-dev/battleship/internal/domain"
)

type EventType byte

const (
	ShotFired = EventType(iota)
	TurnChanged
	GameOver
)

func (t EventType) String() string {
	switch t {
	case ShotFired:
		return "shot_fired"
	case TurnChanged:
		return "turn_changed"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

type Shot struct {
	Attacker domain.Side       `json:"attacker"`
	Target   domain.Coordinate `json:"target"`
	Result   domain.HitResult  `json:"result"`
}

// Event is delivered to listeners after the session lock is released.
// Shot is set for ShotFired, Current for TurnChanged and Winner for
// GameOver.
type Event struct {
	Type    EventType
	Shot    Shot
	Current domain.Side
	Winner  domain.Side
}

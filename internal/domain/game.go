package domain

import (
	"github.com/pkg/errors"
)

type Side byte

const (
	PlayerSide = Side(iota)
	EnemySide
)

func (s Side) Other() Side {
	if s == PlayerSide {
		return EnemySide
	}
	return PlayerSide
}

func (s Side) String() string {
	if s == EnemySide {
		return "enemy"
	}
	return "player"
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "player":
		*s = PlayerSide
	case "enemy":
		*s = EnemySide
	default:
		return errors.Errorf("unknown side '%s'", text)
	}
	return nil
}

type Variant string

const (
	SimpleVariant = Variant("simple")
	SalvoVariant  = Variant("salvo")
)

type OpponentKind string

const (
	DensityOpponent = OpponentKind("density")
	NaiveOpponent   = OpponentKind("naive")
)

// TurnState is the serializable part of a turn strategy.
type TurnState struct {
	Current     Side         `json:"current"`
	PlayerShots int          `json:"player_shots,omitempty"`
	EnemyShots  int          `json:"enemy_shots,omitempty"`
	Staged      []Coordinate `json:"staged,omitempty"`
}

// TurnStrategy decides how a shot is applied and who attacks next.
type TurnStrategy interface {
	Hit(target *Board, c Coordinate) (HitResult, error)
	NextTurn(player, enemy *Board, last HitResult) Side
	State() TurnState
	Restore(state TurnState)
}

// Targeter picks the next coordinate an automated side fires at. It
// reports false when the target has nothing left to sink.
type Targeter interface {
	NextShot(target *Board) (Coordinate, bool)
}

type MatchStatus byte

const (
	ReadyToStart = MatchStatus(iota)
	InProgress
	Finished
)

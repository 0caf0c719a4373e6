package domain

import (
	"github.com/pkg/errors"
)

type CellState byte

const (
	Empty = CellState(iota)
	PendingCommit
	Occupied
	MissHit
	ShipHit
	ShipDestroyed
)

var cellStateNames = [...]string{
	Empty:         "empty",
	PendingCommit: "pending",
	Occupied:      "occupied",
	MissHit:       "miss",
	ShipHit:       "hit",
	ShipDestroyed: "destroyed",
}

// IsTerminal reports whether a shot has already been resolved on the cell.
func (s CellState) IsTerminal() bool {
	return s == MissHit || s == ShipHit || s == ShipDestroyed
}

func (s CellState) String() string {
	if int(s) < len(cellStateNames) {
		return cellStateNames[s]
	}
	return "unknown"
}

func (s CellState) MarshalText() ([]byte, error) {
	if int(s) >= len(cellStateNames) {
		return nil, errors.Errorf("unknown cell state %d", s)
	}
	return []byte(cellStateNames[s]), nil
}

func (s *CellState) UnmarshalText(text []byte) error {
	for i, name := range cellStateNames {
		if name == string(text) {
			*s = CellState(i)
			return nil
		}
	}
	return errors.Errorf("unknown cell state '%s'", text)
}

type HitResult byte

// The zero HitResult is returned alongside errors and matches no outcome.
const (
	Hit = HitResult(iota + 1)
	Miss
	AlreadyHit
)

var hitResultNames = [...]string{
	0:          "none",
	Hit:        "hit",
	Miss:       "miss",
	AlreadyHit: "already_hit",
}

func (r HitResult) String() string {
	if int(r) < len(hitResultNames) {
		return hitResultNames[r]
	}
	return "unknown"
}

func (r HitResult) MarshalText() ([]byte, error) {
	if r == 0 || int(r) >= len(hitResultNames) {
		return nil, errors.Errorf("unknown hit result %d", r)
	}
	return []byte(hitResultNames[r]), nil
}

func (r *HitResult) UnmarshalText(text []byte) error {
	for i, name := range hitResultNames {
		if i > 0 && name == string(text) {
			*r = HitResult(i)
			return nil
		}
	}
	return errors.Errorf("unknown hit result '%s'", text)
}

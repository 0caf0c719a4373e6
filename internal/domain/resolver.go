package domain

import (
	"github.com/pkg/errors"
)

// Hit fires at c. Repeated shots at a resolved cell report AlreadyHit and
// change nothing. Sinking a ship turns all of its cells to ShipDestroyed.
func (b *Board) Hit(c Coordinate) (HitResult, error) {
	if !b.InBounds(c) {
		return 0, errors.WithMessagef(ErrOutOfBounds, "hit %s", c)
	}
	cl := &b.cells[b.index(c)]
	result := cl.classify()
	switch result {
	case AlreadyHit:
		return AlreadyHit, nil
	case Hit:
		cl.state = ShipHit
		cl.pending = false
		ship := &b.ships[cl.ship-1]
		ship.Hits++
		if ship.IsSunk() {
			for _, sc := range ship.Cells() {
				b.cells[b.index(sc)].state = ShipDestroyed
				b.cells[b.index(sc)].pending = false
			}
		}
	default:
		cl.state = MissHit
		cl.pending = false
	}
	b.publish()
	return result, nil
}

// PeekHit reports what Hit would return without changing anything.
func (b *Board) PeekHit(c Coordinate) (HitResult, error) {
	if !b.InBounds(c) {
		return 0, errors.WithMessagef(ErrOutOfBounds, "peek %s", c)
	}
	return b.cells[b.index(c)].classify(), nil
}

func (c cell) classify() HitResult {
	switch {
	case c.state.IsTerminal():
		return AlreadyHit
	case c.ship != 0:
		return Hit
	default:
		return Miss
	}
}

package domain

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Place validates the ship and adds it to the board. On failure the
// board is unchanged. The placed ship is returned with its id and length
// filled in and its hit count reset.
func (b *Board) Place(ship Ship) (Ship, error) {
	ship, err := b.validate(ship)
	if err != nil {
		return Ship{}, err
	}
	if ship.ID == "" {
		ship.ID = uuid.NewString()
	}
	ship.Hits = 0
	b.ships = append(b.ships, ship)
	ref := len(b.ships)
	for _, c := range ship.Cells() {
		b.cells[b.index(c)] = cell{state: Occupied, ship: ref}
	}
	b.publish()
	return ship, nil
}

// CanPlace runs the same checks as Place without mutating the board.
func (b *Board) CanPlace(ship Ship) bool {
	_, err := b.validate(ship)
	return err == nil
}

func (b *Board) validate(ship Ship) (Ship, error) {
	ship, err := b.shape(ship)
	if err != nil {
		return Ship{}, err
	}
	for _, c := range ship.Cells() {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := c.Add(dx, dy)
				if b.InBounds(n) && b.cells[b.index(n)].ship != 0 {
					return Ship{}, errors.WithMessagef(ErrOverlap, "cell %s is taken near %s", n, c)
				}
			}
		}
	}
	return ship, nil
}

// shape checks a ship on its own: direction, length and bounds.
func (b *Board) shape(ship Ship) (Ship, error) {
	switch {
	case ship.Direction == Horizontal && ship.Start.Y != ship.End.Y,
		ship.Direction == Vertical && ship.Start.X != ship.End.X:
		return Ship{}, errors.WithMessagef(ErrDirectionMismatch,
			"%s ship from %s to %s", ship.Direction, ship.Start, ship.End)
	}
	span := ship.Span()
	if ship.Length == 0 {
		ship.Length = span
	}
	if ship.Length != span {
		return Ship{}, errors.WithMessagef(ErrLengthMismatch,
			"length %d, coordinates cover %d cells", ship.Length, span)
	}
	for _, c := range ship.Cells() {
		if !b.InBounds(c) {
			return Ship{}, errors.WithMessagef(ErrPlacementOutOfBounds,
				"cell %s is outside %dx%d grid", c, b.size, b.size)
		}
	}
	return ship, nil
}

package domain

import (
	"github.com/pkg/errors"
)

type ShipDirection byte

const (
	Horizontal = ShipDirection(iota)
	Vertical
)

func (d ShipDirection) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

func (d ShipDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *ShipDirection) UnmarshalText(text []byte) error {
	switch string(text) {
	case "horizontal":
		*d = Horizontal
	case "vertical":
		*d = Vertical
	default:
		return errors.Errorf("unknown ship direction '%s'", text)
	}
	return nil
}

// Ship spans Start..End inclusive. Length is derived from the coordinates
// when left zero.
type Ship struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Start     Coordinate    `json:"start"`
	End       Coordinate    `json:"end"`
	Direction ShipDirection `json:"direction"`
	Length    int           `json:"length"`
	Hits      int           `json:"hits"`
}

// NewShip builds a ship of the given length growing right (horizontal) or
// down (vertical) from start.
func NewShip(name string, start Coordinate, direction ShipDirection, length int) Ship {
	end := start
	if direction == Vertical {
		end.Y += length - 1
	} else {
		end.X += length - 1
	}
	return Ship{
		Name:      name,
		Start:     start,
		End:       end,
		Direction: direction,
		Length:    length,
	}
}

func (s Ship) IsSunk() bool {
	return s.Hits == s.Length
}

// Span is the number of cells between Start and End inclusive.
func (s Ship) Span() int {
	return max(abs(s.End.X-s.Start.X), abs(s.End.Y-s.Start.Y)) + 1
}

// Cells lists the covered coordinates from the top-left end.
func (s Ship) Cells() []Coordinate {
	from := Coordinate{X: min(s.Start.X, s.End.X), Y: min(s.Start.Y, s.End.Y)}
	span := s.Span()
	cells := make([]Coordinate, 0, span)
	for i := 0; i < span; i++ {
		if s.Direction == Vertical {
			cells = append(cells, from.Add(0, i))
		} else {
			cells = append(cells, from.Add(i, 0))
		}
	}
	return cells
}

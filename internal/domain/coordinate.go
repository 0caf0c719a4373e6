package domain

import (
	"fmt"
)

// Coordinate is a 0-based cell address: X is the column, Y is the row.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

func (c Coordinate) Add(dx, dy int) Coordinate {
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Chebyshev returns the king-move distance between two coordinates.
func (c Coordinate) Chebyshev(o Coordinate) int {
	return max(abs(c.X-o.X), abs(c.Y-o.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

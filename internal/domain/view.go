package domain

import (
	"strconv"
	"strings"
)

// CellView is a read-only cell projection. Ship indexes BoardView.Ships,
// -1 when the cell holds no (visible) ship.
type CellView struct {
	State CellState `json:"state"`
	Ship  int       `json:"ship"`
}

type ShipView struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Start     Coordinate    `json:"start"`
	End       Coordinate    `json:"end"`
	Direction ShipDirection `json:"direction"`
	Length    int           `json:"length"`
	Hits      int           `json:"hits"`
	Sunk      bool          `json:"sunk"`
}

// BoardView is an immutable point-in-time copy of a board. Cells are
// indexed [y][x].
type BoardView struct {
	Size  int          `json:"size"`
	Cells [][]CellView `json:"cells"`
	Ships []ShipView   `json:"ships"`
}

func (b *Board) Snapshot() BoardView {
	view := BoardView{
		Size:  b.size,
		Cells: make([][]CellView, b.size),
		Ships: make([]ShipView, len(b.ships)),
	}
	for y := 0; y < b.size; y++ {
		row := make([]CellView, b.size)
		for x := 0; x < b.size; x++ {
			cl := b.cells[y*b.size+x]
			row[x] = CellView{State: cl.visible(), Ship: cl.ship - 1}
		}
		view.Cells[y] = row
	}
	for i, ship := range b.ships {
		view.Ships[i] = ShipView{
			ID:        ship.ID,
			Name:      ship.Name,
			Start:     ship.Start,
			End:       ship.End,
			Direction: ship.Direction,
			Length:    ship.Length,
			Hits:      ship.Hits,
			Sunk:      ship.IsSunk(),
		}
	}
	return view
}

func (v BoardView) At(c Coordinate) CellView {
	return v.Cells[c.Y][c.X]
}

func (v BoardView) UnsunkShips() int {
	count := 0
	for _, ship := range v.Ships {
		if !ship.Sunk {
			count++
		}
	}
	return count
}

// Masked hides what the opponent must not see: unhit ship cells read as
// Empty and only sunk ships are listed.
func (v BoardView) Masked() BoardView {
	masked := BoardView{
		Size:  v.Size,
		Cells: make([][]CellView, len(v.Cells)),
		Ships: make([]ShipView, 0, len(v.Ships)),
	}
	remap := make([]int, len(v.Ships))
	for i, ship := range v.Ships {
		remap[i] = -1
		if ship.Sunk {
			remap[i] = len(masked.Ships)
			masked.Ships = append(masked.Ships, ship)
		}
	}
	for y, row := range v.Cells {
		out := make([]CellView, len(row))
		for x, cv := range row {
			state := cv.State
			if state == Occupied {
				state = Empty
			}
			ref := -1
			if cv.Ship >= 0 && cv.Ship < len(remap) {
				ref = remap[cv.Ship]
			}
			out[x] = CellView{State: state, Ship: ref}
		}
		masked.Cells[y] = out
	}
	return masked
}

var cellGlyphs = map[CellState]byte{
	Empty:         '.',
	PendingCommit: '?',
	Occupied:      '#',
	MissHit:       'o',
	ShipHit:       '*',
	ShipDestroyed: 'X',
}

// Render draws the view as text, one row per line with column and row
// numbers.
func (v BoardView) Render() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < v.Size; x++ {
		sb.WriteString(pad(strconv.Itoa(x)))
	}
	sb.WriteByte('\n')
	for y, row := range v.Cells {
		sb.WriteString(pad(strconv.Itoa(y)))
		for _, cv := range row {
			sb.WriteByte(cellGlyphs[cv.State])
			sb.WriteString("  ")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func pad(s string) string {
	return s + strings.Repeat(" ", max(0, 3-len(s)))
}

package targeting

import (
	"strconv"
	"strings"

	"github.com/kiryu-dev/battleship/internal/domain"
	"go.uber.org/zap"
)

const defaultMaxShipLength = 5

// follow-up order after a hit: top, right, bottom, left. The stack is
// LIFO, so the left neighbour is tried first. Candidates are filtered when
// pushed only; a popped candidate is always fired.
var followUps = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

type densityHunter struct {
	logger    *zap.Logger
	maxLength int
	stack     []domain.Coordinate
	targeting bool
	destroyed map[int]struct{}
}

// NewDensity returns the probability-density hunter. In hunt mode it fires
// at the cell covered by the most placements of the ships still afloat;
// after a hit it works through the neighbours of that hit (target mode).
// maxLength is the longest ship length considered, 5 when not positive.
func NewDensity(logger *zap.Logger, maxLength int) *densityHunter {
	if maxLength <= 0 {
		maxLength = defaultMaxShipLength
	}
	return &densityHunter{
		logger:    logger,
		maxLength: maxLength,
		destroyed: make(map[int]struct{}),
	}
}

func (h *densityHunter) InTargetMode() bool {
	return h.targeting
}

func (h *densityHunter) NextShot(target *domain.Board) (domain.Coordinate, bool) {
	if target.AllShipsDestroyed() {
		return domain.Coordinate{}, false
	}
	if len(h.stack) > 0 {
		c := h.stack[len(h.stack)-1]
		h.stack = h.stack[:len(h.stack)-1]
		h.targeting = true
		result, err := target.PeekHit(c)
		if err != nil {
			h.logger.Error("peek target mode shot", zap.Stringer("target", c), zap.Error(err))
			return domain.Coordinate{}, false
		}
		if result == domain.Hit {
			h.push(target, c)
		}
		h.logger.Debug("target mode shot", zap.Stringer("target", c), zap.Int("candidates", len(h.stack)))
		return c, true
	}
	h.targeting = false
	c := h.hunt(target)
	result, err := target.PeekHit(c)
	if err != nil {
		h.logger.Error("peek hunt mode shot", zap.Stringer("target", c), zap.Error(err))
		return domain.Coordinate{}, false
	}
	if result == domain.Hit {
		h.targeting = true
		h.push(target, c)
	}
	h.logger.Debug("hunt mode shot", zap.Stringer("target", c))
	return c, true
}

// Density recomputes the density grid, indexed [y][x], for the ship
// lengths not yet known to be destroyed.
func (h *densityHunter) Density(target *domain.Board) [][]int {
	h.refreshDestroyed(target)
	size := target.Size()
	grid := make([][]int, size)
	for y := range grid {
		grid[y] = make([]int, size)
	}
	blocked := func(c domain.Coordinate) bool {
		return target.State(c).IsTerminal() || nearDestroyed(target, c)
	}
	for length := h.maxLength; length > 0; length-- {
		if _, ok := h.destroyed[length]; ok {
			continue
		}
		for line := 0; line < size; line++ {
			for from := 0; from+length <= size; from++ {
				walkWindow(grid, length, func(i int) domain.Coordinate {
					return domain.NewCoordinate(from+i, line)
				}, blocked)
				walkWindow(grid, length, func(i int) domain.Coordinate {
					return domain.NewCoordinate(line, from+i)
				}, blocked)
			}
		}
	}
	if ce := h.logger.Check(zap.DebugLevel, "density grid"); ce != nil {
		ce.Write(zap.String("grid", formatGrid(grid)))
	}
	return grid
}

// walkWindow adds one to every cell of the window and undoes the partial
// walk when a blocked cell cuts it short.
func walkWindow(grid [][]int, length int, cellAt func(int) domain.Coordinate, blocked func(domain.Coordinate) bool) {
	i := 0
	for ; i < length; i++ {
		c := cellAt(i)
		if blocked(c) {
			break
		}
		grid[c.Y][c.X]++
	}
	if i == length {
		return
	}
	for j := i - 1; j >= 0; j-- {
		c := cellAt(j)
		grid[c.Y][c.X]--
	}
}

// hunt picks the non-terminal cell with the strictly greatest density,
// first in row-major order on ties. With no positive density it returns
// (0,0) whatever its state.
func (h *densityHunter) hunt(target *domain.Board) domain.Coordinate {
	grid := h.Density(target)
	best, largest := domain.NewCoordinate(0, 0), 0
	for y, row := range grid {
		for x, v := range row {
			c := domain.NewCoordinate(x, y)
			if v > largest && !target.State(c).IsTerminal() {
				best, largest = c, v
			}
		}
	}
	return best
}

func (h *densityHunter) refreshDestroyed(target *domain.Board) {
	for _, ship := range target.Ships() {
		if ship.IsSunk() {
			h.destroyed[ship.Length] = struct{}{}
		}
	}
}

func (h *densityHunter) push(target *domain.Board, from domain.Coordinate) {
	for _, d := range followUps {
		c := from.Add(d[0], d[1])
		if h.canHit(target, c) && !nearDestroyed(target, c) {
			h.stack = append(h.stack, c)
		}
	}
}

func (h *densityHunter) canHit(target *domain.Board, c domain.Coordinate) bool {
	if !target.InBounds(c) || target.State(c).IsTerminal() {
		return false
	}
	for _, queued := range h.stack {
		if queued == c {
			return false
		}
	}
	return true
}

func nearDestroyed(target *domain.Board, c domain.Coordinate) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && target.State(c.Add(dx, dy)) == domain.ShipDestroyed {
				return true
			}
		}
	}
	return false
}

func formatGrid(grid [][]int) string {
	var sb strings.Builder
	for _, row := range grid {
		for _, v := range row {
			sb.WriteString(strconv.Itoa(v))
			sb.WriteString("  ")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

package targeting

import (
	"math/rand"

	"github.com/kiryu-dev/battleship/internal/domain"
	"go.uber.org/zap"
)

// probe order around the previous hit: up, down, left, right.
var probes = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

type naiveHunter struct {
	logger  *zap.Logger
	rnd     *rand.Rand
	last    domain.Coordinate
	lastHit bool
}

// NewNaive returns a hunter that fires at random until it hits, then tries
// the four neighbours of that hit once before going back to random shots.
func NewNaive(logger *zap.Logger, rnd *rand.Rand) *naiveHunter {
	return &naiveHunter{
		logger: logger,
		rnd:    rnd,
	}
}

func (h *naiveHunter) NextShot(target *domain.Board) (domain.Coordinate, bool) {
	if target.AllShipsDestroyed() {
		return domain.Coordinate{}, false
	}
	next, ok := h.probe(target)
	if !ok {
		next = domain.NewCoordinate(h.rnd.Intn(target.Size()), h.rnd.Intn(target.Size()))
	}
	result, err := target.PeekHit(next)
	if err != nil {
		h.logger.Error("peek naive shot", zap.Stringer("target", next), zap.Error(err))
		return domain.Coordinate{}, false
	}
	h.last = next
	h.lastHit = result == domain.Hit
	h.logger.Debug("naive shot", zap.Stringer("target", next), zap.Bool("probe", ok))
	return next, true
}

func (h *naiveHunter) probe(target *domain.Board) (domain.Coordinate, bool) {
	if !h.lastHit {
		return domain.Coordinate{}, false
	}
	for _, d := range probes {
		c := h.last.Add(d[0], d[1])
		if target.InBounds(c) && !target.State(c).IsTerminal() {
			return c, true
		}
	}
	return domain.Coordinate{}, false
}

package fleet

import (
	"math/rand"
	"sort"

	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/pkg/errors"
)

const maxAttempts = 1000

var (
	ErrPlacementExhausted = errors.New("no room left for ship")
	ErrInvalidLength      = errors.New("invalid ship length")
)

// Standard is the classic fleet, longest first.
var Standard = []int{5, 4, 3, 2, 1}

var names = map[int]string{
	5: "carrier",
	4: "battleship",
	3: "cruiser",
	2: "destroyer",
	1: "submarine",
}

// Name returns the display name for a ship of the given length.
func Name(length int) string {
	if name, ok := names[length]; ok {
		return name
	}
	return "ship"
}

// PlaceRandom places one ship per length at random positions, longest
// first. Ships that fit are kept on the board even when a later one fails.
func PlaceRandom(board *domain.Board, lengths []int, rnd *rand.Rand) ([]domain.Ship, error) {
	sorted := append([]int(nil), lengths...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	placed := make([]domain.Ship, 0, len(sorted))
	for _, length := range sorted {
		if length <= 0 || length > board.Size() {
			return placed, errors.WithMessagef(ErrInvalidLength, "length %d on %dx%d grid", length, board.Size(), board.Size())
		}
		ship, err := placeOne(board, length, rnd)
		if err != nil {
			return placed, err
		}
		placed = append(placed, ship)
	}
	return placed, nil
}

func placeOne(board *domain.Board, length int, rnd *rand.Rand) (domain.Ship, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		direction := domain.Horizontal
		if rnd.Intn(2) == 1 {
			direction = domain.Vertical
		}
		start := domain.NewCoordinate(rnd.Intn(board.Size()), rnd.Intn(board.Size()))
		ship, err := board.Place(domain.NewShip(Name(length), start, direction, length))
		if err == nil {
			return ship, nil
		}
	}
	return domain.Ship{}, errors.WithMessagef(ErrPlacementExhausted, "length %d after %d attempts", length, maxAttempts)
}

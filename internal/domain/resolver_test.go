package domain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWithShip(t *testing.T, size int, ship Ship) *Board {
	t.Helper()
	board := NewBoard(size)
	_, err := board.Place(ship)
	require.NoError(t, err)
	return board
}

func TestHitClassifiesShots(t *testing.T) {
	board := boardWithShip(t, 8, horizontal(1, 1, 5))

	result, err := board.Hit(NewCoordinate(3, 1))
	require.NoError(t, err)
	assert.Equal(t, Hit, result)
	assert.Equal(t, ShipHit, board.State(NewCoordinate(3, 1)))

	result, err = board.Hit(NewCoordinate(3, 2))
	require.NoError(t, err)
	assert.Equal(t, Miss, result)
	assert.Equal(t, MissHit, board.State(NewCoordinate(3, 2)))

	result, err = board.Hit(NewCoordinate(3, 2))
	require.NoError(t, err)
	assert.Equal(t, AlreadyHit, result)
}

func TestHitOutOfBounds(t *testing.T) {
	board := boardWithShip(t, 8, horizontal(1, 1, 5))
	for _, c := range []Coordinate{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 8, Y: 0}, {X: 0, Y: 8}} {
		_, err := board.Hit(c)
		assert.True(t, errors.Is(err, ErrOutOfBounds), "hit %s", c)
		_, err = board.PeekHit(c)
		assert.True(t, errors.Is(err, ErrOutOfBounds), "peek %s", c)
	}
}

func TestHitSinksShip(t *testing.T) {
	board := boardWithShip(t, 8, vertical(2, 2, 4))
	for y := 2; y <= 3; y++ {
		result, err := board.Hit(NewCoordinate(2, y))
		require.NoError(t, err)
		require.Equal(t, Hit, result)
	}
	ship, _ := board.ShipAt(NewCoordinate(2, 2))
	require.False(t, ship.IsSunk())
	assert.Equal(t, ShipHit, board.State(NewCoordinate(2, 2)))

	result, err := board.Hit(NewCoordinate(2, 4))
	require.NoError(t, err)
	require.Equal(t, Hit, result)
	ship, _ = board.ShipAt(NewCoordinate(2, 2))
	assert.True(t, ship.IsSunk())
	assert.Equal(t, 3, ship.Hits)
	for y := 2; y <= 4; y++ {
		assert.Equal(t, ShipDestroyed, board.State(NewCoordinate(2, y)))
	}
	assert.True(t, board.AllShipsDestroyed())
}

func TestHitIsIdempotentOnceResolved(t *testing.T) {
	board := boardWithShip(t, 8, horizontal(1, 1, 3))
	_, err := board.Hit(NewCoordinate(1, 1))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		result, err := board.Hit(NewCoordinate(1, 1))
		require.NoError(t, err)
		assert.Equal(t, AlreadyHit, result)
	}
	ship, _ := board.ShipAt(NewCoordinate(1, 1))
	assert.Equal(t, 1, ship.Hits)
}

func TestSingleCellShipWinCondition(t *testing.T) {
	board := boardWithShip(t, 8, horizontal(7, 0, 7))
	result, err := board.Hit(NewCoordinate(7, 0))
	require.NoError(t, err)
	assert.Equal(t, Hit, result)
	assert.Equal(t, 0, board.UnsunkShips())
	assert.True(t, board.AllShipsDestroyed())
}

func TestPeekHitIsReadOnly(t *testing.T) {
	board := boardWithShip(t, 8, horizontal(1, 1, 5))
	_, err := board.Place(vertical(7, 3, 5))
	require.NoError(t, err)
	for _, c := range []Coordinate{{X: 1, Y: 1}, {X: 0, Y: 0}, {X: 7, Y: 3}, {X: 7, Y: 4}, {X: 7, Y: 5}} {
		_, err := board.Hit(c)
		require.NoError(t, err)
	}
	require.NoError(t, board.MarkPending(NewCoordinate(2, 1)))
	require.NoError(t, board.MarkPending(NewCoordinate(4, 4)))

	notified := 0
	board.Subscribe(func(BoardView) { notified++ })
	before := board.Snapshot()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			_, err := board.PeekHit(NewCoordinate(x, y))
			require.NoError(t, err)
			require.Equal(t, before, board.Snapshot())
		}
	}
	assert.Zero(t, notified)
}

func TestPeekHitMatchesHit(t *testing.T) {
	board := boardWithShip(t, 8, horizontal(1, 1, 5))
	require.NoError(t, board.MarkPending(NewCoordinate(2, 1)))
	require.NoError(t, board.MarkPending(NewCoordinate(2, 2)))
	for _, c := range []Coordinate{{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 1}, {X: 3, Y: 1}} {
		peeked, err := board.PeekHit(c)
		require.NoError(t, err)
		result, err := board.Hit(c)
		require.NoError(t, err)
		assert.Equal(t, peeked, result, "at %s", c)
	}
}

func TestPendingMarkResolvesOnHit(t *testing.T) {
	board := boardWithShip(t, 8, horizontal(1, 1, 2))
	require.NoError(t, board.MarkPending(NewCoordinate(1, 1)))
	require.NoError(t, board.MarkPending(NewCoordinate(5, 5)))
	assert.Equal(t, PendingCommit, board.State(NewCoordinate(1, 1)))
	assert.Equal(t, PendingCommit, board.State(NewCoordinate(5, 5)))

	result, err := board.Hit(NewCoordinate(1, 1))
	require.NoError(t, err)
	assert.Equal(t, Hit, result)
	assert.Equal(t, ShipHit, board.State(NewCoordinate(1, 1)))

	result, err = board.Hit(NewCoordinate(5, 5))
	require.NoError(t, err)
	assert.Equal(t, Miss, result)
	assert.Equal(t, MissHit, board.State(NewCoordinate(5, 5)))

	require.NoError(t, board.MarkPending(NewCoordinate(5, 5)))
	assert.Equal(t, MissHit, board.State(NewCoordinate(5, 5)))
	assert.True(t, errors.Is(board.MarkPending(NewCoordinate(9, 9)), ErrOutOfBounds))
}

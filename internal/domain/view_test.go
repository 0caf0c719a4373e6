package domain

import (
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskedHidesUnhitShips(t *testing.T) {
	board := boardWithShip(t, 6, horizontal(0, 0, 1))
	_, err := board.Place(vertical(4, 2, 4))
	require.NoError(t, err)
	for _, c := range []Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 4, Y: 2}, {X: 2, Y: 2}} {
		_, err := board.Hit(c)
		require.NoError(t, err)
	}

	masked := board.Snapshot().Masked()
	assert.Equal(t, ShipDestroyed, masked.At(NewCoordinate(0, 0)).State)
	assert.Equal(t, 0, masked.At(NewCoordinate(0, 0)).Ship)
	assert.Equal(t, ShipHit, masked.At(NewCoordinate(4, 2)).State)
	assert.Equal(t, -1, masked.At(NewCoordinate(4, 2)).Ship)
	assert.Equal(t, Empty, masked.At(NewCoordinate(4, 3)).State)
	assert.Equal(t, MissHit, masked.At(NewCoordinate(2, 2)).State)
	require.Len(t, masked.Ships, 1)
	assert.True(t, masked.Ships[0].Sunk)
}

func TestRenderDrawsGlyphs(t *testing.T) {
	board := boardWithShip(t, 3, horizontal(0, 0, 1))
	_, err := board.Hit(NewCoordinate(2, 2))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(board.Snapshot().Render(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "0  #  #  .", strings.TrimRight(lines[1], " "))
	assert.Equal(t, "2  .  .  o", strings.TrimRight(lines[3], " "))
}

func TestBoardViewJSONRoundTripsThroughRemoteApply(t *testing.T) {
	remote := boardWithShip(t, 6, horizontal(0, 0, 2))
	_, err := remote.Place(vertical(5, 3, 4))
	require.NoError(t, err)
	for _, c := range []Coordinate{{X: 0, Y: 0}, {X: 5, Y: 3}, {X: 5, Y: 4}, {X: 3, Y: 3}} {
		_, err := remote.Hit(c)
		require.NoError(t, err)
	}
	data, err := jsoniter.Marshal(remote.Snapshot())
	require.NoError(t, err)
	var view BoardView
	require.NoError(t, jsoniter.Unmarshal(data, &view))

	local := boardWithShip(t, 6, horizontal(0, 0, 2))
	_, err = local.Place(vertical(5, 3, 4))
	require.NoError(t, err)
	require.NoError(t, local.ApplyRemoteSnapshot(view))

	assert.Equal(t, remote.Snapshot().Cells, local.Snapshot().Cells)
	assert.Equal(t, 1, local.UnsunkShips())
	ship, ok := local.ShipAt(NewCoordinate(1, 0))
	require.True(t, ok)
	assert.Equal(t, 1, ship.Hits)

	result, err := local.Hit(NewCoordinate(1, 0))
	require.NoError(t, err)
	assert.Equal(t, Hit, result)
	result, err = local.Hit(NewCoordinate(2, 0))
	require.NoError(t, err)
	assert.Equal(t, Hit, result)
	assert.True(t, local.AllShipsDestroyed())
}

func TestApplyRemoteSnapshotKeepsLocalShipIdentity(t *testing.T) {
	local := boardWithShip(t, 5, Ship{ID: "local", Direction: Horizontal, Start: NewCoordinate(0, 0), End: NewCoordinate(1, 0)})
	remote := boardWithShip(t, 5, Ship{ID: "remote", Direction: Vertical, Start: NewCoordinate(3, 2), End: NewCoordinate(3, 3)})
	_, err := remote.Hit(NewCoordinate(3, 2))
	require.NoError(t, err)

	require.NoError(t, local.ApplyRemoteSnapshot(remote.Snapshot()))
	ship, ok := local.ShipAt(NewCoordinate(3, 3))
	require.True(t, ok)
	assert.Equal(t, "local", ship.ID)
	assert.Equal(t, 1, ship.Hits)
	assert.Equal(t, NewCoordinate(3, 2), ship.Start)

	result, err := local.Hit(NewCoordinate(3, 3))
	require.NoError(t, err)
	assert.Equal(t, Hit, result)
	assert.Equal(t, ShipDestroyed, local.State(NewCoordinate(3, 2)))
	_, ok = local.ShipAt(NewCoordinate(0, 0))
	assert.False(t, ok)
}

func TestApplyRemoteSnapshotRejectsMismatch(t *testing.T) {
	local := boardWithShip(t, 5, horizontal(0, 0, 1))
	before := local.Snapshot()

	err := local.ApplyRemoteSnapshot(NewBoard(6).Snapshot())
	assert.True(t, errors.Is(err, ErrSnapshotMismatch))

	other := boardWithShip(t, 5, horizontal(0, 0, 2))
	err = local.ApplyRemoteSnapshot(other.Snapshot())
	assert.True(t, errors.Is(err, ErrSnapshotMismatch))

	broken := local.Snapshot()
	broken.Cells[4][4].Ship = 3
	err = local.ApplyRemoteSnapshot(broken)
	assert.True(t, errors.Is(err, ErrSnapshotMismatch))

	assert.Equal(t, before, local.Snapshot())
}

func TestApplyRemoteSnapshotRejectsBadShipGeometry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(view *BoardView)
	}{
		{
			name: "ship off the grid",
			mutate: func(view *BoardView) {
				view.Ships[0].Start, view.Ships[0].End = NewCoordinate(9, 9), NewCoordinate(10, 9)
			},
		},
		{
			name: "span differs from length",
			mutate: func(view *BoardView) {
				view.Ships[0].End = NewCoordinate(2, 0)
			},
		},
		{
			name: "direction disagrees with coordinates",
			mutate: func(view *BoardView) {
				view.Ships[0].Direction = Vertical
			},
		},
		{
			name: "ship moved without its cells",
			mutate: func(view *BoardView) {
				view.Ships[0].Start, view.Ships[0].End = NewCoordinate(4, 4), NewCoordinate(5, 4)
			},
		},
		{
			name: "footprint cell detached",
			mutate: func(view *BoardView) {
				view.Cells[0][1] = CellView{State: Empty, Ship: -1}
			},
		},
		{
			name: "extra cell refers to ship",
			mutate: func(view *BoardView) {
				view.Cells[5][5] = CellView{State: Occupied, Ship: 0}
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			local := boardWithShip(t, 10, horizontal(0, 0, 1))
			before := local.Snapshot()
			view := local.Snapshot()
			test.mutate(&view)

			err := local.ApplyRemoteSnapshot(view)
			assert.True(t, errors.Is(err, ErrSnapshotMismatch), "got %v", err)
			assert.Equal(t, before, local.Snapshot())

			for _, c := range []Coordinate{NewCoordinate(0, 0), NewCoordinate(1, 0)} {
				result, err := local.Hit(c)
				require.NoError(t, err)
				assert.Equal(t, Hit, result)
			}
			assert.True(t, local.AllShipsDestroyed())
		})
	}
}

func TestApplyRemoteSnapshotRestoresPendingMarks(t *testing.T) {
	remote := boardWithShip(t, 5, horizontal(0, 0, 1))
	require.NoError(t, remote.MarkPending(NewCoordinate(0, 0)))
	require.NoError(t, remote.MarkPending(NewCoordinate(3, 3)))

	local := boardWithShip(t, 5, horizontal(0, 0, 1))
	require.NoError(t, local.ApplyRemoteSnapshot(remote.Snapshot()))
	assert.Equal(t, PendingCommit, local.State(NewCoordinate(0, 0)))
	peeked, err := local.PeekHit(NewCoordinate(0, 0))
	require.NoError(t, err)
	assert.Equal(t, Hit, peeked)
	peeked, err = local.PeekHit(NewCoordinate(3, 3))
	require.NoError(t, err)
	assert.Equal(t, Miss, peeked)
}

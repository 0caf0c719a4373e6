package domain

import (
	"github.com/pkg/errors"
)

// ApplyRemoteSnapshot overwrites cell states with a view received from a
// remote peer. Remote ships are matched to local ships by length; cells
// are re-attached to the local ships, which take the remote position, and
// hit counts are recomputed from the cells. Every remote ship must be a
// legal ship on this grid and own exactly the cells of its footprint.
// Nothing is changed when the view cannot be reconciled.
func (b *Board) ApplyRemoteSnapshot(view BoardView) error {
	if view.Size != b.size || len(view.Cells) != b.size {
		return errors.WithMessagef(ErrSnapshotMismatch, "remote size %d, local size %d", view.Size, b.size)
	}
	mapping, err := b.matchShips(view.Ships)
	if err != nil {
		return err
	}
	refs := make([]int, len(view.Ships))
	cells := make([]cell, len(b.cells))
	for y, row := range view.Cells {
		if len(row) != b.size {
			return errors.WithMessagef(ErrSnapshotMismatch, "row %d has %d cells", y, len(row))
		}
		for x, cv := range row {
			if cv.Ship < -1 || cv.Ship >= len(mapping) {
				return errors.WithMessagef(ErrSnapshotMismatch, "cell (%d,%d) references ship %d", x, y, cv.Ship)
			}
			if cv.State > ShipDestroyed {
				return errors.WithMessagef(ErrSnapshotMismatch, "cell (%d,%d) has state %d", x, y, cv.State)
			}
			cl := cell{state: cv.State}
			if cv.Ship >= 0 {
				cl.ship = mapping[cv.Ship] + 1
				refs[cv.Ship]++
			}
			if cl.state == PendingCommit {
				cl.pending = true
				cl.state = Empty
				if cl.ship != 0 {
					cl.state = Occupied
				}
			}
			cells[y*b.size+x] = cl
		}
	}
	if err := b.checkFootprints(view, refs); err != nil {
		return err
	}
	b.cells = cells
	for i, rs := range view.Ships {
		ship := &b.ships[mapping[i]]
		ship.Start, ship.End, ship.Direction = rs.Start, rs.End, rs.Direction
	}
	for i := range b.ships {
		b.ships[i].Hits = 0
	}
	for _, cl := range b.cells {
		if cl.ship != 0 && (cl.state == ShipHit || cl.state == ShipDestroyed) {
			b.ships[cl.ship-1].Hits++
		}
	}
	b.publish()
	return nil
}

func (b *Board) matchShips(remote []ShipView) ([]int, error) {
	used := make([]bool, len(b.ships))
	mapping := make([]int, len(remote))
	for i, rs := range remote {
		mapping[i] = -1
		for j, ls := range b.ships {
			if !used[j] && ls.Length == rs.Length {
				used[j] = true
				mapping[i] = j
				break
			}
		}
		if mapping[i] < 0 {
			return nil, errors.WithMessagef(ErrSnapshotMismatch, "no local ship of length %d", rs.Length)
		}
	}
	return mapping, nil
}

// checkFootprints verifies the remote ships against the cells that refer
// to them. refs counts the cells referring to each remote ship.
func (b *Board) checkFootprints(view BoardView, refs []int) error {
	for i, rs := range view.Ships {
		ship, err := b.shape(Ship{Start: rs.Start, End: rs.End, Direction: rs.Direction, Length: rs.Length})
		if err != nil {
			return errors.WithMessagef(ErrSnapshotMismatch, "ship %d: %s", i, err)
		}
		for _, c := range ship.Cells() {
			if view.Cells[c.Y][c.X].Ship != i {
				return errors.WithMessagef(ErrSnapshotMismatch, "cell %s is not part of ship %d", c, i)
			}
		}
		if refs[i] != ship.Length {
			return errors.WithMessagef(ErrSnapshotMismatch,
				"%d cells refer to ship %d of length %d", refs[i], i, ship.Length)
		}
	}
	return nil
}

package domain

import (
	"sync"

	"github.com/pkg/errors"
)

type cell struct {
	state CellState
	// ship is an index into Board.ships plus one; zero means no ship.
	ship    int
	pending bool
}

// Board is one side's grid and fleet. Ships enter only through Place and
// cells change only through Hit, MarkPending and ApplyRemoteSnapshot.
// A Board is not safe for concurrent mutation; subscribers may be added
// from any goroutine.
type Board struct {
	size  int
	cells []cell
	ships []Ship

	mu          sync.Mutex
	subscribers map[int]func(BoardView)
	nextSubID   int
}

// NewBoard creates an empty size x size board. size must be positive.
func NewBoard(size int) *Board {
	return &Board{
		size:        size,
		cells:       make([]cell, size*size),
		subscribers: make(map[int]func(BoardView)),
	}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(c Coordinate) bool {
	return c.X >= 0 && c.X < b.size && c.Y >= 0 && c.Y < b.size
}

func (b *Board) index(c Coordinate) int {
	return c.Y*b.size + c.X
}

// State returns the visible state of the cell. Out of range coordinates
// read as Empty.
func (b *Board) State(c Coordinate) CellState {
	if !b.InBounds(c) {
		return Empty
	}
	return b.cells[b.index(c)].visible()
}

func (c cell) visible() CellState {
	if c.pending && !c.state.IsTerminal() {
		return PendingCommit
	}
	return c.state
}

// ShipAt returns a copy of the ship covering c.
func (b *Board) ShipAt(c Coordinate) (Ship, bool) {
	if !b.InBounds(c) {
		return Ship{}, false
	}
	idx := b.cells[b.index(c)].ship
	if idx == 0 {
		return Ship{}, false
	}
	return b.ships[idx-1], true
}

// Ships returns a copy of the fleet in placement order.
func (b *Board) Ships() []Ship {
	ships := make([]Ship, len(b.ships))
	copy(ships, b.ships)
	return ships
}

func (b *Board) UnsunkShips() int {
	count := 0
	for _, ship := range b.ships {
		if !ship.IsSunk() {
			count++
		}
	}
	return count
}

// AllShipsDestroyed is true for an empty fleet as well.
func (b *Board) AllShipsDestroyed() bool {
	return b.UnsunkShips() == 0
}

// MarkPending flags a shot that is recorded but not yet resolved. The
// underlying state is kept, so a later Hit resolves it normally.
// Terminal cells are left untouched.
func (b *Board) MarkPending(c Coordinate) error {
	if !b.InBounds(c) {
		return errors.WithMessagef(ErrOutOfBounds, "mark pending %s", c)
	}
	cl := &b.cells[b.index(c)]
	if cl.state.IsTerminal() || cl.pending {
		return nil
	}
	cl.pending = true
	b.publish()
	return nil
}

// Subscribe registers fn to receive a snapshot after every mutation.
// The returned func removes the subscription.
func (b *Board) Subscribe(fn func(BoardView)) (cancel func()) {
	b.mu.Lock()
	id := b.nextSubID
	b.nextSubID++
	b.subscribers[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}

func (b *Board) publish() {
	b.mu.Lock()
	if len(b.subscribers) == 0 {
		b.mu.Unlock()
		return
	}
	fns := make([]func(BoardView), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	view := b.Snapshot()
	for _, fn := range fns {
		fn(view)
	}
}

package domain

import (
	"github.com/pkg/errors"
)

var (
	ErrOutOfBounds          = errors.New("coordinate is out of grid bounds")
	ErrDirectionMismatch    = errors.New("ship direction does not match its coordinates")
	ErrPlacementOutOfBounds = errors.New("ship does not fit on the grid")
	ErrOverlap              = errors.New("ship overlaps or touches another ship")
	ErrLengthMismatch       = errors.New("ship length does not match its coordinates")
	ErrSnapshotMismatch     = errors.New("remote snapshot does not match local board")
)

package turn

import (
	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/pkg/errors"
)

// Batch collects shots that land together. Stage records a shot and marks
// its cell as pending; Commit resolves every staged shot in staging order.
type Batch struct {
	staged []domain.Coordinate
}

// Stage returns what the shot would yield once committed.
func (b *Batch) Stage(target *domain.Board, c domain.Coordinate) (domain.HitResult, error) {
	result, err := target.PeekHit(c)
	if err != nil {
		return 0, errors.WithMessage(err, "peek staged shot")
	}
	b.staged = append(b.staged, c)
	if result != domain.AlreadyHit {
		if err := target.MarkPending(c); err != nil {
			return 0, errors.WithMessage(err, "mark pending")
		}
	}
	return result, nil
}

func (b *Batch) Commit(target *domain.Board) ([]domain.HitResult, error) {
	results := make([]domain.HitResult, 0, len(b.staged))
	for _, c := range b.staged {
		result, err := target.Hit(c)
		if err != nil {
			return results, errors.WithMessagef(err, "commit shot at %s", c)
		}
		results = append(results, result)
	}
	b.staged = nil
	return results, nil
}

func (b *Batch) Staged() []domain.Coordinate {
	staged := make([]domain.Coordinate, len(b.staged))
	copy(staged, b.staged)
	return staged
}

func (b *Batch) Len() int {
	return len(b.staged)
}

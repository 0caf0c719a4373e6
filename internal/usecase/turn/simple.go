package turn

import (
	"github.com/kiryu-dev/battleship/internal/domain"
	"go.uber.org/zap"
)

type simpleStrategy struct {
	logger  *zap.Logger
	current domain.Side
}

// NewSimple returns the one-shot-per-turn strategy: a side keeps firing
// while it hits.
func NewSimple(logger *zap.Logger) *simpleStrategy {
	return &simpleStrategy{
		logger:  logger,
		current: domain.PlayerSide,
	}
}

func (s *simpleStrategy) Hit(target *domain.Board, c domain.Coordinate) (domain.HitResult, error) {
	return target.Hit(c)
}

func (s *simpleStrategy) NextTurn(_, _ *domain.Board, last domain.HitResult) domain.Side {
	if last != domain.Hit {
		s.current = s.current.Other()
		s.logger.Debug("turn passed", zap.Stringer("current", s.current), zap.Stringer("last", last))
	}
	return s.current
}

func (s *simpleStrategy) State() domain.TurnState {
	return domain.TurnState{Current: s.current}
}

func (s *simpleStrategy) Restore(state domain.TurnState) {
	s.current = state.Current
}

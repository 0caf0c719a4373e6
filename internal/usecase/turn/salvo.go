package turn

import (
	"github.com/kiryu-dev/battleship/internal/domain"
	"go.uber.org/zap"
)

type salvoStrategy struct {
	logger      *zap.Logger
	current     domain.Side
	playerShots int
	enemyShots  int
	batch       Batch
}

// NewSalvo returns the salvo strategy. Each side fires as many shots per
// round as it has unsunk ships. Player shots are batched and resolved
// together on the last shot of the round; enemy shots resolve at once.
// The initial counters are the sides' fleet sizes.
func NewSalvo(logger *zap.Logger, playerShots, enemyShots int) *salvoStrategy {
	return &salvoStrategy{
		logger:      logger,
		current:     domain.PlayerSide,
		playerShots: playerShots,
		enemyShots:  enemyShots,
	}
}

// Hit reports Miss for every batched player shot; the real outcomes show
// up on the board once the round's last shot commits the batch.
func (s *salvoStrategy) Hit(target *domain.Board, c domain.Coordinate) (domain.HitResult, error) {
	if s.current != domain.PlayerSide {
		return target.Hit(c)
	}
	if _, err := s.batch.Stage(target, c); err != nil {
		return 0, err
	}
	if s.playerShots <= 1 {
		results, err := s.batch.Commit(target)
		if err != nil {
			return 0, err
		}
		s.logger.Debug("salvo committed", zap.Int("shots", len(results)), zap.Any("results", results))
	}
	return domain.Miss, nil
}

func (s *salvoStrategy) NextTurn(player, enemy *domain.Board, last domain.HitResult) domain.Side {
	var left int
	if s.current == domain.PlayerSide {
		s.playerShots--
		left = s.playerShots
	} else {
		if last != domain.AlreadyHit {
			s.enemyShots--
		}
		left = s.enemyShots
	}
	if left > 0 {
		return s.current
	}
	s.current = s.current.Other()
	s.playerShots = player.UnsunkShips()
	s.enemyShots = enemy.UnsunkShips()
	s.logger.Debug("salvo round over",
		zap.Stringer("current", s.current),
		zap.Int("player_shots", s.playerShots),
		zap.Int("enemy_shots", s.enemyShots),
	)
	return s.current
}

func (s *salvoStrategy) State() domain.TurnState {
	state := domain.TurnState{
		Current:     s.current,
		PlayerShots: s.playerShots,
		EnemyShots:  s.enemyShots,
	}
	if s.batch.Len() > 0 {
		state.Staged = s.batch.Staged()
	}
	return state
}

// Restore does not touch the board: pending marks travel with the board
// snapshot.
func (s *salvoStrategy) Restore(state domain.TurnState) {
	s.current = state.Current
	s.playerShots = state.PlayerShots
	s.enemyShots = state.EnemyShots
	s.batch.staged = append([]domain.Coordinate(nil), state.Staged...)
}

package match

import (
	"time"

	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *Session) Snapshot() domain.MatchView {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := domain.MatchView{
		ID:          s.settings.ID,
		Variant:     s.settings.Variant,
		Opponent:    s.settings.Opponent,
		Status:      s.status,
		Turn:        domain.TurnState{Current: s.current},
		PlayerShots: s.shots[domain.PlayerSide],
		EnemyShots:  s.shots[domain.EnemySide],
		Player:      s.boards[domain.PlayerSide].Snapshot(),
		Enemy:       s.boards[domain.EnemySide].Snapshot(),
	}
	if s.strategy != nil {
		view.Turn = s.strategy.State()
	}
	if s.winner != nil {
		winner := *s.winner
		view.Winner = &winner
	}
	return view
}

// Restore rebuilds a session from a snapshot taken by Snapshot, possibly
// on another server. Identity, variant and grid size come from the view;
// the fleet comes from the view once the match has started and from
// settings otherwise. Hunter memory is not part of the view and starts
// empty.
func Restore(view domain.MatchView, settings Settings, logger *zap.Logger) (*Session, error) {
	settings.ID = view.ID
	settings.Variant = view.Variant
	settings.Opponent = view.Opponent
	settings.GridSize = view.Player.Size
	if view.Status != domain.ReadyToStart || len(settings.Fleet) == 0 {
		settings.Fleet = make([]int, 0, len(view.Player.Ships))
		for _, ship := range view.Player.Ships {
			settings.Fleet = append(settings.Fleet, ship.Length)
		}
	}
	s, err := New(settings, logger)
	if err != nil {
		return nil, errors.WithMessage(err, "new session")
	}
	for side, board := range []domain.BoardView{view.Player, view.Enemy} {
		for _, ship := range board.Ships {
			_, err := s.boards[side].Place(domain.Ship{
				ID:        ship.ID,
				Name:      ship.Name,
				Start:     ship.Start,
				End:       ship.End,
				Direction: ship.Direction,
				Length:    ship.Length,
			})
			if err != nil {
				return nil, errors.WithMessagef(err, "restore %s ship %s", domain.Side(side), ship.ID)
			}
		}
		if err := s.boards[side].ApplyRemoteSnapshot(board); err != nil {
			return nil, errors.WithMessagef(err, "restore %s board", domain.Side(side))
		}
	}
	s.status = view.Status
	s.shots = [2]int{view.PlayerShots, view.EnemyShots}
	s.current = view.Turn.Current
	if view.Winner != nil {
		winner := *view.Winner
		s.winner = &winner
		s.finished = time.Now()
	}
	if s.status != domain.ReadyToStart {
		s.strategy, s.targeter = s.rules()
		s.strategy.Restore(view.Turn)
	}
	s.logger.Info("match restored", zap.Int("status", int(s.status)))
	return s, nil
}

package game

import (
	"context"

	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/kiryu-dev/battleship/internal/usecase/match"
	"github.com/kiryu-dev/battleship/pkg/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type useCase struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) useCase {
	return useCase{
		logger: logger,
	}
}

// Play drives one connection of the player through the match. It returns
// nil when the match is over or the connection is closed; a closed
// connection leaves the session as is so the player can come back.
func (u useCase) Play(_ context.Context, player domain.Player, session *match.Session) error {
	logger := u.logger.With(zap.String("match_id", session.ID()), zap.String("client_key", player.Key()))
	if err := startGame(player, session); err != nil {
		return errors.WithMessage(err, "start game")
	}
	if session.Status() == domain.ReadyToStart {
		err := placeFleet(player, session)
		switch {
		case isPlayerGone(err):
			logger.Info("player left during placement")
			return nil
		case err != nil:
			return errors.WithMessage(err, "place fleet")
		}
		if err := session.PlaceRandom(domain.EnemySide); err != nil {
			return errors.WithMessage(err, "place enemy fleet")
		}
		if err := session.Start(); err != nil {
			return errors.WithMessage(err, "start match")
		}
		if err := startGame(player, session); err != nil {
			return errors.WithMessage(err, "start game")
		}
	}
	if session.Status() == domain.InProgress && session.Current() == domain.EnemySide {
		shots, err := session.PlayEnemy()
		if err != nil {
			return errors.WithMessage(err, "resume enemy turn")
		}
		if err := sendShotResults(player, session, shots); err != nil {
			return errors.WithMessage(err, "send shot results")
		}
	}
	for session.Status() == domain.InProgress {
		if err := player.SendMessage(domain.Message{Type: domain.RequestShot}); err != nil {
			return errors.WithMessage(err, "send message to player")
		}
		target, err := receiveShot(player)
		switch {
		case isPlayerGone(err):
			logger.Info("player left the match")
			return nil
		case err != nil:
			return errors.WithMessage(err, "receive shot")
		}
		shots, err := session.Fire(target)
		switch {
		case isRejectable(err):
			if err := player.RejectShot(err); err != nil {
				return err
			}
			continue
		case err != nil:
			return errors.WithMessage(err, "fire")
		}
		if err := sendShotResults(player, session, shots); err != nil {
			return errors.WithMessage(err, "send shot results")
		}
	}
	winner, ok := session.Winner()
	if !ok {
		return nil
	}
	logger.Info("match is over", zap.Stringer("winner", winner))
	err := player.SendMessage(domain.Message{
		Type:    domain.GameOver,
		Payload: domain.GameOverPayload{Winner: winner, GameResult: toGameResult(winner)},
	})
	if err != nil {
		return errors.WithMessage(err, "send message to player")
	}
	return nil
}

func startGame(player domain.Player, session *match.Session) error {
	view := session.Snapshot()
	err := player.SendMessage(domain.Message{
		Type: domain.StartGame,
		Payload: domain.StartGamePayload{
			MatchID:  view.ID,
			Variant:  view.Variant,
			Opponent: view.Opponent,
			Fleet:    session.Missing(domain.PlayerSide),
			Player:   view.Player,
			Enemy:    view.Enemy.Masked(),
		},
	})
	if err != nil {
		return errors.WithMessage(err, "send message to player")
	}
	return nil
}

func placeFleet(player domain.Player, session *match.Session) error {
	for len(session.Missing(domain.PlayerSide)) > 0 {
		msg, err := player.ReceiveMessage()
		if err != nil {
			return errors.WithMessage(err, "read message from player")
		}
		if msg.Type != domain.PlaceFleet {
			return errors.WithMessagef(errUnexpectedMessageType, "got %d, want fleet", msg.Type)
		}
		payload, err := utils.UnmarshalJson[domain.PlaceFleetPayload](msg.Payload)
		if err != nil {
			return errors.WithMessage(err, "unmarshal fleet")
		}
		if len(payload.Ships) == 0 {
			if err := session.PlaceRandom(domain.PlayerSide); err != nil {
				return errors.WithMessage(err, "place random fleet")
			}
			continue
		}
		for _, ship := range payload.Ships {
			if _, err := session.PlaceShip(domain.PlayerSide, ship); err != nil {
				if err := player.RejectPlacement(err); err != nil {
					return err
				}
				if err := startGame(player, session); err != nil {
					return errors.WithMessage(err, "resend placement")
				}
				break
			}
		}
	}
	return nil
}

func receiveShot(player domain.Player) (domain.Coordinate, error) {
	for {
		msg, err := player.ReceiveMessage()
		if err != nil {
			return domain.Coordinate{}, errors.WithMessage(err, "read message from player")
		}
		if msg.Type != domain.Shot {
			if err := player.RejectShot(errUnexpectedMessageType); err != nil {
				return domain.Coordinate{}, err
			}
			continue
		}
		shot, err := utils.UnmarshalJson[domain.ShotPayload](msg.Payload)
		if err != nil {
			return domain.Coordinate{}, errors.WithMessage(err, "unmarshal player's shot")
		}
		return shot.Target, nil
	}
}

func sendShotResults(player domain.Player, session *match.Session, shots []match.Shot) error {
	if len(shots) == 0 {
		return nil
	}
	view := session.Snapshot()
	for i, shot := range shots {
		opts := make([]domain.ShotResultPayloadOption, 0, 2)
		if i == len(shots)-1 {
			opts = append(opts, domain.WithBoards(view.Player, view.Enemy.Masked()))
			switch {
			case view.Winner != nil:
				opts = append(opts, domain.WithWinner(*view.Winner))
			case view.Turn.Current == domain.PlayerSide:
				opts = append(opts, domain.RequestShotBack())
			}
		}
		payload := &domain.ShotResultPayload{
			Attacker: shot.Attacker,
			Target:   shot.Target,
			Result:   shot.Result,
			Current:  view.Turn.Current,
		}
		for _, opt := range opts {
			opt(payload)
		}
		if err := player.SendMessage(domain.Message{Type: domain.ShotResult, Payload: payload}); err != nil {
			return errors.WithMessage(err, "send message to player")
		}
	}
	return nil
}

const (
	WinGameResult  = "Победа"
	LoseGameResult = "Поражение"
)

func toGameResult(winner domain.Side) string {
	if winner == domain.PlayerSide {
		return WinGameResult
	}
	return LoseGameResult
}

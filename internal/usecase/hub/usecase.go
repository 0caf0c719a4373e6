package hub

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/kiryu-dev/battleship/internal/usecase/match"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	syncPeriod    = 5 * time.Second
	recordTimeout = 5 * time.Second
)

type gameUseCase interface {
	Play(ctx context.Context, player domain.Player, session *match.Session) error
}

type hostedMatch struct {
	session   *match.Session
	clientKey string
}

type useCase struct {
	game       gameUseCase
	results    domain.ResultsRepository
	settings   match.Settings
	seed       int64
	matches    map[string]*hostedMatch
	mirrors    map[string]domain.MatchView
	statesChan chan map[string]domain.MatchView
	ticker     *time.Ticker
	mu         *sync.RWMutex
	logger     *zap.Logger
}

// New creates the match registry. settings is the template for every new
// match; a non-zero seed makes the automated side reproducible.
func New(game gameUseCase, results domain.ResultsRepository, settings match.Settings, seed int64,
	logger *zap.Logger) *useCase {
	u := &useCase{
		game:       game,
		results:    results,
		settings:   settings,
		seed:       seed,
		matches:    make(map[string]*hostedMatch),
		mirrors:    make(map[string]domain.MatchView),
		statesChan: make(chan map[string]domain.MatchView, 1),
		ticker:     time.NewTicker(syncPeriod),
		mu:         &sync.RWMutex{},
		logger:     logger,
	}
	go u.syncStates()
	return u
}

func (u *useCase) Handle(ctx context.Context, client domain.Client) error {
	hosted, err := u.findMatch(client.Key())
	if err != nil {
		return errors.WithMessage(err, "find match")
	}
	player := domain.NewPlayer(hosted.session.ID(), client)
	if err := u.game.Play(ctx, player, hosted.session); err != nil {
		return errors.WithMessage(err, "play game")
	}
	return nil
}

// findMatch returns the client's unfinished match, restoring it from a
// mirrored snapshot when another server hosted it, or creates a new one.
func (u *useCase) findMatch(clientKey string) (*hostedMatch, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, hosted := range u.matches {
		if hosted.clientKey == clientKey && hosted.session.Status() != domain.Finished {
			u.logger.Info("found active match", zap.String("match_id", hosted.session.ID()))
			return hosted, nil
		}
	}
	for id, view := range u.mirrors {
		if view.ClientKey != clientKey || view.Status == domain.Finished {
			continue
		}
		session, err := match.Restore(view, u.matchSettings(), u.logger)
		if err != nil {
			u.logger.Warn("failed to restore mirrored match", zap.String("match_id", id), zap.Error(err))
			delete(u.mirrors, id)
			continue
		}
		delete(u.mirrors, id)
		u.logger.Info("restored mirrored match", zap.String("match_id", id))
		return u.host(session, clientKey), nil
	}
	session, err := match.New(u.matchSettings(), u.logger)
	if err != nil {
		return nil, errors.WithMessage(err, "new match")
	}
	u.logger.Info("created match", zap.String("match_id", session.ID()), zap.String("client_key", clientKey))
	return u.host(session, clientKey), nil
}

func (u *useCase) matchSettings() match.Settings {
	settings := u.settings
	settings.ID = ""
	settings.Rand = nil
	if u.seed != 0 {
		settings.Rand = rand.New(rand.NewSource(u.seed))
	}
	return settings
}

func (u *useCase) host(session *match.Session, clientKey string) *hostedMatch {
	hosted := &hostedMatch{session: session, clientKey: clientKey}
	u.matches[session.ID()] = hosted
	session.Subscribe(func(e match.Event) {
		if e.Type == match.GameOver {
			u.record(session)
		}
	})
	return hosted
}

func (u *useCase) record(session *match.Session) {
	result, ok := session.Result()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := u.results.RecordMatch(ctx, result); err != nil {
		u.logger.Warn("failed to record match result", zap.String("match_id", result.MatchID), zap.Error(err))
	}
}

func (u *useCase) syncStates() {
	defer u.ticker.Stop()
	for range u.ticker.C {
		states := u.collectStates()
		if len(states) == 0 {
			continue
		}
		select {
		case u.statesChan <- states:
		default:
			u.logger.Debug("previous states are not synced yet, skipping")
		}
	}
}

// collectStates drops finished matches and snapshots the rest.
func (u *useCase) collectStates() map[string]domain.MatchView {
	u.mu.Lock()
	defer u.mu.Unlock()
	states := make(map[string]domain.MatchView, len(u.matches))
	for id, hosted := range u.matches {
		view := hosted.session.Snapshot()
		if view.Status == domain.Finished {
			delete(u.matches, id)
			continue
		}
		view.ClientKey = hosted.clientKey
		states[id] = view
	}
	return states
}

func (u *useCase) MatchStates() <-chan map[string]domain.MatchView {
	return u.statesChan
}

// ApplyStates replaces the mirrored snapshots with the ones received from
// the master server.
func (u *useCase) ApplyStates(_ context.Context, states map[string]domain.MatchView) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.mirrors = make(map[string]domain.MatchView, len(states))
	for id, view := range states {
		if _, ok := u.matches[id]; ok || view.Status == domain.Finished {
			continue
		}
		u.mirrors[id] = view
	}
	u.logger.Info("applied states", zap.Int("matches", len(u.mirrors)))
}

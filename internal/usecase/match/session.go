package match

import (
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/kiryu-dev/battleship/internal/usecase/fleet"
	"github.com/kiryu-dev/battleship/internal/usecase/targeting"
	"github.com/kiryu-dev/battleship/internal/usecase/turn"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Settings struct {
	ID       string
	GridSize int
	Fleet    []int
	Variant  domain.Variant
	Opponent domain.OpponentKind
	// Rand drives the automated side. A time seeded source is used when nil.
	Rand *rand.Rand
	// Targeter replaces the hunter picked by Opponent.
	Targeter domain.Targeter
}

// Session is one match between a player and an automated enemy. All state
// changes go through Shoot, Fire and PlayEnemy, one at a time.
type Session struct {
	mu       sync.Mutex
	logger   *zap.Logger
	settings Settings

	boards   [2]*domain.Board
	strategy domain.TurnStrategy
	targeter domain.Targeter
	status   domain.MatchStatus
	current  domain.Side
	winner   *domain.Side
	shots    [2]int
	finished time.Time
	repeats  int

	listenersMu sync.Mutex
	listeners   map[int]func(Event)
	nextID      int
}

func New(settings Settings, logger *zap.Logger) (*Session, error) {
	if settings.GridSize <= 0 {
		return nil, errors.WithMessagef(ErrInvalidSettings, "grid size %d", settings.GridSize)
	}
	if len(settings.Fleet) == 0 {
		return nil, errors.WithMessage(ErrInvalidSettings, "empty fleet")
	}
	for _, length := range settings.Fleet {
		if length <= 0 || length > settings.GridSize {
			return nil, errors.WithMessagef(ErrInvalidSettings, "ship length %d on %dx%d grid",
				length, settings.GridSize, settings.GridSize)
		}
	}
	switch settings.Variant {
	case domain.SimpleVariant, domain.SalvoVariant:
	default:
		return nil, errors.WithMessagef(ErrInvalidSettings, "variant '%s'", settings.Variant)
	}
	switch settings.Opponent {
	case domain.DensityOpponent, domain.NaiveOpponent:
	default:
		return nil, errors.WithMessagef(ErrInvalidSettings, "opponent '%s'", settings.Opponent)
	}
	if settings.ID == "" {
		settings.ID = uuid.NewString()
	}
	if settings.Rand == nil {
		settings.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	settings.Fleet = slices.Clone(settings.Fleet)
	return &Session{
		logger:    logger.With(zap.String("match_id", settings.ID)),
		settings:  settings,
		boards:    [2]*domain.Board{domain.NewBoard(settings.GridSize), domain.NewBoard(settings.GridSize)},
		listeners: make(map[int]func(Event)),
	}, nil
}

func (s *Session) ID() string {
	return s.settings.ID
}

func (s *Session) Status() domain.MatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Current() domain.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Winner reports the winning side once the match is finished.
func (s *Session) Winner() (domain.Side, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.winner == nil {
		return 0, false
	}
	return *s.winner, true
}

func (s *Session) Fleet() []int {
	return slices.Clone(s.settings.Fleet)
}

// Missing lists the fleet lengths the side still has to place.
func (s *Session) Missing(side domain.Side) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missing(side)
}

func (s *Session) missing(side domain.Side) []int {
	left := slices.Clone(s.settings.Fleet)
	for _, ship := range s.boards[side].Ships() {
		if i := slices.Index(left, ship.Length); i >= 0 {
			left = slices.Delete(left, i, i+1)
		}
	}
	return left
}

func (s *Session) PlaceShip(side domain.Side, ship domain.Ship) (domain.Ship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != domain.ReadyToStart {
		return domain.Ship{}, ErrAlreadyStarted
	}
	length := ship.Length
	if length == 0 {
		length = ship.Span()
	}
	if !slices.Contains(s.missing(side), length) {
		return domain.Ship{}, errors.WithMessagef(ErrNotInFleet, "%s ship of length %d", side, length)
	}
	if ship.Name == "" {
		ship.Name = fleet.Name(length)
	}
	placed, err := s.boards[side].Place(ship)
	if err != nil {
		return domain.Ship{}, errors.WithMessage(err, "place ship")
	}
	return placed, nil
}

// PlaceRandom fills in the side's missing ships at random.
func (s *Session) PlaceRandom(side domain.Side) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != domain.ReadyToStart {
		return ErrAlreadyStarted
	}
	if _, err := fleet.PlaceRandom(s.boards[side], s.missing(side), s.settings.Rand); err != nil {
		return errors.WithMessagef(err, "place %s fleet", side)
	}
	return nil
}

func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != domain.ReadyToStart {
		return ErrAlreadyStarted
	}
	for _, side := range []domain.Side{domain.PlayerSide, domain.EnemySide} {
		if missing := s.missing(side); len(missing) > 0 {
			return errors.WithMessagef(ErrFleetIncomplete, "%s misses %v", side, missing)
		}
	}
	s.strategy, s.targeter = s.rules()
	s.current = s.strategy.State().Current
	s.status = domain.InProgress
	s.logger.Info("match started",
		zap.String("variant", string(s.settings.Variant)),
		zap.String("opponent", string(s.settings.Opponent)),
	)
	return nil
}

func (s *Session) rules() (domain.TurnStrategy, domain.Targeter) {
	var strategy domain.TurnStrategy
	switch s.settings.Variant {
	case domain.SalvoVariant:
		strategy = turn.NewSalvo(s.logger,
			s.boards[domain.PlayerSide].UnsunkShips(),
			s.boards[domain.EnemySide].UnsunkShips())
	default:
		strategy = turn.NewSimple(s.logger)
	}
	if s.settings.Targeter != nil {
		return strategy, s.settings.Targeter
	}
	switch s.settings.Opponent {
	case domain.NaiveOpponent:
		return strategy, targeting.NewNaive(s.logger, s.settings.Rand)
	default:
		return strategy, targeting.NewDensity(s.logger, slices.Max(s.settings.Fleet))
	}
}

// Shoot fires one shot for attacker. Errors leave the turn where it was.
func (s *Session) Shoot(attacker domain.Side, c domain.Coordinate) (domain.HitResult, error) {
	s.mu.Lock()
	shot, events, err := s.shoot(attacker, c)
	s.mu.Unlock()
	s.dispatch(events)
	return shot.Result, err
}

// Fire plays the player's shot and then every enemy shot until the turn
// comes back to the player or the match ends.
func (s *Session) Fire(c domain.Coordinate) ([]Shot, error) {
	s.mu.Lock()
	shot, events, err := s.shoot(domain.PlayerSide, c)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	shots, more, err := s.playEnemy()
	s.mu.Unlock()
	s.dispatch(append(events, more...))
	return append([]Shot{shot}, shots...), err
}

// PlayEnemy runs the automated side while it holds the turn.
func (s *Session) PlayEnemy() ([]Shot, error) {
	s.mu.Lock()
	shots, events, err := s.playEnemy()
	s.mu.Unlock()
	s.dispatch(events)
	return shots, err
}

func (s *Session) playEnemy() ([]Shot, []Event, error) {
	var (
		shots  []Shot
		events []Event
	)
	target := s.boards[domain.PlayerSide]
	limit := target.Size() * target.Size()
	for s.status == domain.InProgress && s.current == domain.EnemySide {
		c, ok := s.targeter.NextShot(target)
		if !ok {
			break
		}
		if s.repeats > limit {
			c = firstOpen(target)
			s.logger.Warn("targeter keeps repeating resolved cells", zap.Int("repeats", s.repeats), zap.Stringer("fallback", c))
		}
		shot, more, err := s.shoot(domain.EnemySide, c)
		events = append(events, more...)
		if err != nil {
			return shots, events, errors.WithMessage(err, "enemy shot")
		}
		shots = append(shots, shot)
		if shot.Result == domain.AlreadyHit {
			s.repeats++
		} else {
			s.repeats = 0
		}
	}
	return shots, events, nil
}

func (s *Session) shoot(attacker domain.Side, c domain.Coordinate) (Shot, []Event, error) {
	switch s.status {
	case domain.ReadyToStart:
		return Shot{}, nil, ErrNotStarted
	case domain.Finished:
		return Shot{}, nil, ErrGameOver
	}
	if attacker != s.current {
		return Shot{}, nil, errors.WithMessagef(ErrNotYourTurn, "%s fired on %s turn", attacker, s.current)
	}
	target := s.boards[attacker.Other()]
	result, err := s.strategy.Hit(target, c)
	if err != nil {
		return Shot{}, nil, errors.WithMessagef(err, "%s shot", attacker)
	}
	s.shots[attacker]++
	shot := Shot{Attacker: attacker, Target: c, Result: result}
	events := []Event{{Type: ShotFired, Shot: shot}}
	s.logger.Debug("shot fired",
		zap.Stringer("attacker", attacker),
		zap.Stringer("target", c),
		zap.Stringer("result", result),
	)
	if target.AllShipsDestroyed() {
		winner := attacker
		s.winner = &winner
		s.status = domain.Finished
		s.finished = time.Now()
		s.logger.Info("match finished", zap.Stringer("winner", winner),
			zap.Int("player_shots", s.shots[domain.PlayerSide]),
			zap.Int("enemy_shots", s.shots[domain.EnemySide]),
		)
		return shot, append(events, Event{Type: GameOver, Winner: winner}), nil
	}
	next := s.strategy.NextTurn(s.boards[domain.PlayerSide], s.boards[domain.EnemySide], result)
	if next != s.current {
		s.current = next
		events = append(events, Event{Type: TurnChanged, Current: next})
	}
	return shot, events, nil
}

func firstOpen(board *domain.Board) domain.Coordinate {
	for y := 0; y < board.Size(); y++ {
		for x := 0; x < board.Size(); x++ {
			c := domain.NewCoordinate(x, y)
			if !board.State(c).IsTerminal() {
				return c
			}
		}
	}
	return domain.NewCoordinate(0, 0)
}

// Subscribe registers fn for match events. fn runs outside the session
// lock and may call back into the session.
func (s *Session) Subscribe(fn func(Event)) (cancel func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()
	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Session) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}
	s.listenersMu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()
	for _, event := range events {
		for _, fn := range fns {
			fn(event)
		}
	}
}

// Result is available once the match is finished.
func (s *Session) Result() (domain.MatchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.winner == nil {
		return domain.MatchResult{}, false
	}
	return domain.MatchResult{
		MatchID:     s.settings.ID,
		Variant:     s.settings.Variant,
		Opponent:    s.settings.Opponent,
		Winner:      *s.winner,
		PlayerShots: s.shots[domain.PlayerSide],
		EnemyShots:  s.shots[domain.EnemySide],
		FinishedAt:  s.finished,
	}, true
}

package turn

import (
	"testing"

	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBoard(t *testing.T, ships ...domain.Ship) *domain.Board {
	t.Helper()
	board := domain.NewBoard(10)
	for _, ship := range ships {
		_, err := board.Place(ship)
		require.NoError(t, err)
	}
	return board
}

func at(x, y int) domain.Coordinate {
	return domain.NewCoordinate(x, y)
}

func playerFleet(t *testing.T) *domain.Board {
	return newBoard(t,
		domain.NewShip("carrier", at(0, 0), domain.Horizontal, 5),
		domain.NewShip("cruiser", at(0, 2), domain.Horizontal, 3),
		domain.NewShip("boat", at(9, 9), domain.Horizontal, 1),
	)
}

func enemyFleet(t *testing.T) *domain.Board {
	return newBoard(t,
		domain.NewShip("boat", at(5, 5), domain.Horizontal, 1),
		domain.NewShip("destroyer", at(0, 9), domain.Horizontal, 2),
	)
}

func TestSimpleKeepsTurnWhileHitting(t *testing.T) {
	player, enemy := playerFleet(t), enemyFleet(t)
	strategy := NewSimple(zap.NewNop())
	require.Equal(t, domain.PlayerSide, strategy.State().Current)

	for _, c := range []domain.Coordinate{at(0, 9), at(1, 9), at(5, 5)} {
		result, err := strategy.Hit(enemy, c)
		require.NoError(t, err)
		require.Equal(t, domain.Hit, result)
		assert.Equal(t, domain.PlayerSide, strategy.NextTurn(player, enemy, result))
	}

	result, err := strategy.Hit(enemy, at(3, 3))
	require.NoError(t, err)
	require.Equal(t, domain.Miss, result)
	assert.Equal(t, domain.EnemySide, strategy.NextTurn(player, enemy, result))

	assert.Equal(t, domain.PlayerSide, strategy.NextTurn(player, enemy, domain.AlreadyHit))
}

func TestSimpleHitOutOfBounds(t *testing.T) {
	strategy := NewSimple(zap.NewNop())
	_, err := strategy.Hit(enemyFleet(t), at(10, 0))
	assert.True(t, errors.Is(err, domain.ErrOutOfBounds))
}

func TestSalvoPlayerRoundTakesOneShotPerShip(t *testing.T) {
	player, enemy := playerFleet(t), enemyFleet(t)
	strategy := NewSalvo(zap.NewNop(), player.UnsunkShips(), enemy.UnsunkShips())

	result, err := strategy.Hit(enemy, at(5, 5))
	require.NoError(t, err)
	assert.Equal(t, domain.Miss, result)
	assert.Equal(t, domain.PendingCommit, enemy.State(at(5, 5)))
	assert.Equal(t, domain.PlayerSide, strategy.NextTurn(player, enemy, result))

	result, err = strategy.Hit(enemy, at(4, 4))
	require.NoError(t, err)
	assert.Equal(t, domain.Miss, result)
	assert.Equal(t, domain.PendingCommit, enemy.State(at(4, 4)))
	assert.Equal(t, domain.PlayerSide, strategy.NextTurn(player, enemy, result))
	assert.Equal(t, 2, enemy.UnsunkShips())

	result, err = strategy.Hit(enemy, at(0, 9))
	require.NoError(t, err)
	assert.Equal(t, domain.Miss, result)
	assert.Equal(t, domain.ShipDestroyed, enemy.State(at(5, 5)))
	assert.Equal(t, domain.MissHit, enemy.State(at(4, 4)))
	assert.Equal(t, domain.ShipHit, enemy.State(at(0, 9)))
	assert.Equal(t, domain.EnemySide, strategy.NextTurn(player, enemy, result))

	state := strategy.State()
	assert.Equal(t, domain.TurnState{Current: domain.EnemySide, PlayerShots: 3, EnemyShots: 1}, state)
}

func TestSalvoEnemyAlreadyHitIsFree(t *testing.T) {
	player, enemy := playerFleet(t), enemyFleet(t)
	strategy := NewSalvo(zap.NewNop(), 3, 2)
	strategy.Restore(domain.TurnState{Current: domain.EnemySide, PlayerShots: 3, EnemyShots: 2})

	result, err := strategy.Hit(player, at(7, 7))
	require.NoError(t, err)
	require.Equal(t, domain.Miss, result)
	assert.Equal(t, domain.MissHit, player.State(at(7, 7)))
	require.Equal(t, domain.EnemySide, strategy.NextTurn(player, enemy, result))

	for i := 0; i < 3; i++ {
		result, err = strategy.Hit(player, at(7, 7))
		require.NoError(t, err)
		require.Equal(t, domain.AlreadyHit, result)
		require.Equal(t, domain.EnemySide, strategy.NextTurn(player, enemy, result))
	}

	result, err = strategy.Hit(player, at(9, 9))
	require.NoError(t, err)
	require.Equal(t, domain.Hit, result)
	assert.Equal(t, domain.PlayerSide, strategy.NextTurn(player, enemy, result))
	assert.Equal(t, domain.TurnState{Current: domain.PlayerSide, PlayerShots: 2, EnemyShots: 2}, strategy.State())
}

func TestSalvoPlayerAlreadyHitStillCounts(t *testing.T) {
	player, enemy := playerFleet(t), enemyFleet(t)
	_, err := enemy.Hit(at(3, 3))
	require.NoError(t, err)
	strategy := NewSalvo(zap.NewNop(), 2, 2)

	result, err := strategy.Hit(enemy, at(3, 3))
	require.NoError(t, err)
	assert.Equal(t, domain.Miss, result)
	assert.Equal(t, domain.MissHit, enemy.State(at(3, 3)))
	require.Equal(t, domain.PlayerSide, strategy.NextTurn(player, enemy, result))

	result, err = strategy.Hit(enemy, at(3, 3))
	require.NoError(t, err)
	assert.Equal(t, domain.EnemySide, strategy.NextTurn(player, enemy, result))
}

func TestSalvoRejectsOutOfBoundsWithoutStaging(t *testing.T) {
	enemy := enemyFleet(t)
	strategy := NewSalvo(zap.NewNop(), 3, 2)
	_, err := strategy.Hit(enemy, at(-1, 4))
	assert.True(t, errors.Is(err, domain.ErrOutOfBounds))
	assert.Empty(t, strategy.State().Staged)
}

func TestSalvoRestoreKeepsStagedShots(t *testing.T) {
	player, enemy := playerFleet(t), enemyFleet(t)
	first := NewSalvo(zap.NewNop(), 2, 2)
	result, err := first.Hit(enemy, at(5, 5))
	require.NoError(t, err)
	first.NextTurn(player, enemy, result)
	state := first.State()
	require.Equal(t, []domain.Coordinate{at(5, 5)}, state.Staged)
	require.Equal(t, 1, state.PlayerShots)

	second := NewSalvo(zap.NewNop(), 0, 0)
	second.Restore(state)
	result, err = second.Hit(enemy, at(0, 9))
	require.NoError(t, err)
	assert.Equal(t, domain.Miss, result)
	assert.Equal(t, domain.ShipDestroyed, enemy.State(at(5, 5)))
	assert.Equal(t, domain.ShipHit, enemy.State(at(0, 9)))
	assert.Equal(t, domain.EnemySide, second.NextTurn(player, enemy, result))
}

func TestBatchCommitsInStagingOrder(t *testing.T) {
	enemy := enemyFleet(t)
	var batch Batch

	result, err := batch.Stage(enemy, at(0, 9))
	require.NoError(t, err)
	assert.Equal(t, domain.Hit, result)
	result, err = batch.Stage(enemy, at(0, 9))
	require.NoError(t, err)
	assert.Equal(t, domain.Hit, result)
	result, err = batch.Stage(enemy, at(2, 2))
	require.NoError(t, err)
	assert.Equal(t, domain.Miss, result)
	assert.Equal(t, 3, batch.Len())

	results, err := batch.Commit(enemy)
	require.NoError(t, err)
	assert.Equal(t, []domain.HitResult{domain.Hit, domain.AlreadyHit, domain.Miss}, results)
	assert.Zero(t, batch.Len())

	result, err = batch.Stage(enemy, at(2, 2))
	require.NoError(t, err)
	assert.Equal(t, domain.AlreadyHit, result)
	assert.Equal(t, domain.MissHit, enemy.State(at(2, 2)))
}

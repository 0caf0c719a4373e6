package postgres

import (
	"context"
	"database/sql"
	"net"

	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/pkg/errors"
	"github.com/sqlc-dev/pqtype"
	"go.uber.org/zap"
)

const (
	insertMatchResult = `INSERT INTO match_results
    (id, server_ip, variant, opponent, winner, player_shots, enemy_shots, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	countWins = `SELECT COUNT(*) FROM match_results WHERE server_ip = $1 AND winner = $2`
)

type repository struct {
	db       *sql.DB
	serverIP pqtype.Inet
	logger   *zap.Logger
}

// New stores results tagged with the address of this server.
func New(db *sql.DB, serverIP net.IPNet, logger *zap.Logger) repository {
	return repository{
		db:       db,
		serverIP: pqtype.Inet{IPNet: serverIP, Valid: serverIP.IP != nil},
		logger:   logger,
	}
}

func (r repository) RecordMatch(ctx context.Context, result domain.MatchResult) error {
	_, err := r.db.ExecContext(ctx, insertMatchResult,
		result.MatchID,
		r.serverIP,
		string(result.Variant),
		string(result.Opponent),
		result.Winner.String(),
		result.PlayerShots,
		result.EnemyShots,
		result.FinishedAt,
	)
	if err != nil {
		return errors.WithMessagef(err, "insert result of match '%s'", result.MatchID)
	}
	r.logger.Info("recorded match result", zap.String("match_id", result.MatchID), zap.Stringer("winner", result.Winner))
	return nil
}

// CountWins returns how many matches recorded by this server the side won.
func (r repository) CountWins(ctx context.Context, side domain.Side) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, countWins, r.serverIP, side.String()).Scan(&count); err != nil {
		return 0, errors.WithMessage(err, "count wins")
	}
	return count, nil
}

// LocalIPNet returns the outbound address of this host. No packet is sent.
func LocalIPNet() (net.IPNet, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return net.IPNet{}, errors.WithMessage(err, "dial udp")
	}
	defer func() {
		_ = conn.Close()
	}()
	return IPNetFromAddr(conn.LocalAddr().String())
}

// IPNetFromAddr turns a host:port address into a single host network.
func IPNetFromAddr(addr string) (net.IPNet, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return net.IPNet{}, errors.WithMessage(err, "split host port")
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return net.IPNet{}, errors.Errorf("invalid ip '%s'", host)
	}
	if ip4 := ip.To4(); ip4 != nil {
		return net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}, nil
	}
	return net.IPNet{IP: ip, Mask: net.CIDRMask(128, 128)}, nil
}

type nopRepository struct {
	logger *zap.Logger
}

// NewNop returns a results store that only logs; used when no database is
// configured.
func NewNop(logger *zap.Logger) nopRepository {
	return nopRepository{logger: logger}
}

func (r nopRepository) RecordMatch(_ context.Context, result domain.MatchResult) error {
	r.logger.Info("match result", zap.String("match_id", result.MatchID), zap.Stringer("winner", result.Winner),
		zap.Int("player_shots", result.PlayerShots), zap.Int("enemy_shots", result.EnemyShots))
	return nil
}

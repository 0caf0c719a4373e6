package synchronizer

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/kiryu-dev/battleship/internal/config"
	"github.com/kiryu-dev/battleship/internal/domain"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type useCase struct {
	repo       domain.SyncRepository
	addrs      map[string]string
	masterName *atomic.String
	serverName string
	logger     *zap.Logger
	period     time.Duration
	srvChan    chan domain.ServerInfo
}

const (
	httpPrefix        = "http://"
	healthCheckPeriod = 5 * time.Second
)

func New(repo domain.SyncRepository, servers []config.ServerConfig, serverName string,
	logger *zap.Logger) *useCase {
	addrs := make(map[string]string)
	logger.Info("server name: " + serverName)
	for _, srv := range servers {
		if srv.Host != serverName {
			addrs[srv.Host] = httpPrefix + net.JoinHostPort(srv.Host, strconv.Itoa(srv.Port))
		}
	}
	logger.Info("defined servers", zap.Any("servers", addrs))
	return &useCase{
		repo:       repo,
		addrs:      addrs,
		serverName: serverName,
		masterName: atomic.NewString(serverName),
		logger:     logger,
		period:     healthCheckPeriod,
		srvChan:    make(chan domain.ServerInfo),
	}
}

// Sync mirrors match states to every peer while this server is master.
func (u *useCase) Sync(ctx context.Context, statesChan <-chan map[string]domain.MatchView) {
	for {
		select {
		case <-ctx.Done():
			return
		case states := <-statesChan:
			if u.masterName.Load() != u.serverName {
				continue
			}
			u.logger.Info("starting sync matches states...", zap.Int("matches", len(states)))
			for host, addr := range u.addrs {
				if err := u.repo.Sync(ctx, addr, states); err != nil {
					u.logger.Warn("failed to sync states", zap.String("host", host), zap.Error(err))
				}
			}
		}
	}
}

// DefineServerRole asks every peer for its role. A peer that already
// serves as master keeps the role; otherwise the healthy server with the
// smallest name becomes master.
func (u *useCase) DefineServerRole(ctx context.Context) {
	master := u.serverName
	announced := ""
	for host, addr := range u.addrs {
		resp, err := u.repo.HealthCheck(ctx, addr)
		if err != nil {
			u.logger.Warn("server is unavailable", zap.String("host", host), zap.Error(err))
			continue
		}
		if resp.Role == domain.MasterServer && (announced == "" || resp.ServerName < announced) {
			announced = resp.ServerName
		}
		if resp.ServerName < master {
			master = resp.ServerName
		}
	}
	if announced != "" {
		master = announced
	}
	u.masterName.Store(master)
	role := domain.ReserveServer
	if master == u.serverName {
		role = domain.MasterServer
	}
	u.logger.Info("defined master server", zap.String("host", master), zap.String("role", string(role)))
	select {
	case u.srvChan <- domain.ServerInfo{ServerRole: role, MasterServerName: master}:
	case <-ctx.Done():
	}
}

// CheckMasterHealth polls the master until it stops answering, then starts
// a new election. It returns at once on the master itself.
func (u *useCase) CheckMasterHealth(ctx context.Context) error {
	ticker := time.NewTicker(u.period)
	defer ticker.Stop()
	for {
		masterName := u.masterName.Load()
		if masterName == u.serverName {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		masterAddr, ok := u.addrs[masterName]
		if !ok {
			u.logger.Warn("undefined master server", zap.String("host", masterName))
			go u.DefineServerRole(ctx)
			return nil
		}
		if _, err := u.repo.HealthCheck(ctx, masterAddr); err != nil {
			u.logger.Warn("master server is unavailable", zap.String("host", masterName), zap.Error(err))
			go u.DefineServerRole(ctx)
			return nil
		}
	}
}

func (u *useCase) ServerName() string {
	return u.serverName
}

func (u *useCase) MasterName() string {
	return u.masterName.Load()
}

func (u *useCase) Chan() <-chan domain.ServerInfo {
	return u.srvChan
}

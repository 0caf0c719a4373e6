package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kiryu-dev/battleship/internal/domain"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const startupDelay = 3 * time.Second

type server struct {
	srv        *http.Server
	hub        domain.HubUseCase
	sync       domain.SyncUseCase
	role       *atomic.String
	masterHost *atomic.String
	upgrader   websocket.Upgrader
	logger     *zap.Logger
	done       chan struct{}
}

func New(addr string, hub domain.HubUseCase, sync domain.SyncUseCase, logger *zap.Logger) *server {
	s := &server{
		srv:        &http.Server{Addr: addr},
		hub:        hub,
		sync:       sync,
		role:       atomic.NewString(""),
		masterHost: atomic.NewString(""),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 4 * time.Second,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
		done:   make(chan struct{}),
	}
	s.srv.Handler = s.routes()
	return s
}

func (s *server) Role() domain.ServerRole {
	return domain.ServerRole(s.role.Load())
}

// ListenAndServe serves clients and peers and follows role changes until
// Shutdown is called or ctx is done.
func (s *server) ListenAndServe(ctx context.Context) {
	go func() {
		s.logger.Info("starting listening address: " + s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil {
			s.logger.Info(err.Error())
		}
	}()
	select {
	case <-time.After(startupDelay):
	case <-ctx.Done():
		return
	}
	go s.sync.Sync(ctx, s.hub.MatchStates())
	go s.sync.DefineServerRole(ctx)
	for {
		select {
		case info := <-s.sync.Chan():
			s.logger.Info("server info", zap.Any("info", info))
			s.masterHost.Store(info.MasterServerName)
			s.role.Store(string(info.ServerRole))
			go func() {
				if err := s.sync.CheckMasterHealth(ctx); err != nil {
					s.logger.Warn(err.Error())
				}
			}()
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	close(s.done)
	return s.srv.Shutdown(ctx)
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/game", s.serveWs)
	mux.HandleFunc("GET /health", s.healthCheck)
	mux.HandleFunc("POST /sync", s.applyStates)
	return mux
}

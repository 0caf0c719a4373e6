package ws

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/kiryu-dev/battleship/pkg/utils"
	"go.uber.org/zap"
)

func (s *server) serveWs(w http.ResponseWriter, r *http.Request) {
	role, masterHost := s.Role(), s.masterHost.Load()
	s.logger.Info("new connection", zap.String("master host", masterHost), zap.String("role", string(role)))
	clientKey := strings.TrimSpace(r.Header.Get(domain.ClientKeyHeader))
	if clientKey == "" {
		s.logger.Warn(fmt.Sprintf("empty '%s' header", domain.ClientKeyHeader))
		http.Error(w, "missing client key", http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(err.Error())
		return
	}
	client := newClient(conn, clientKey)
	defer client.Close()
	switch role {
	case domain.ReserveServer:
		s.redirect(client, masterHost)
	case domain.MasterServer:
		if err := s.hub.Handle(r.Context(), client); err != nil {
			s.logger.Error("match handling failed", zap.String("client_key", clientKey), zap.Error(err))
		}
	default:
		s.logger.Warn("the client connected before the server role was determined")
	}
}

// redirect points a client that reached a reserve server to the master.
func (s *server) redirect(client domain.Client, masterHost string) {
	s.logger.Info("request client to switch server", zap.String("master host", masterHost))
	err := client.WriteMessage(domain.Message{
		Type:    domain.SwitchServer,
		Payload: domain.SwitchServerPayload{MasterServer: masterHost},
	})
	if err != nil {
		s.logger.Error(err.Error())
	}
}

func (s *server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	s.logger.Debug("health checking...")
	resp := domain.HealthCheckResponse{
		ServerName: s.sync.ServerName(),
		Role:       s.Role(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := utils.EncodeJson(w, resp); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		s.logger.Warn(err.Error())
	}
}

func (s *server) applyStates(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("apply mirrored match states")
	states, err := utils.DecodeJson[map[string]domain.MatchView](r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.logger.Warn(err.Error())
		return
	}
	s.hub.ApplyStates(r.Context(), states)
}

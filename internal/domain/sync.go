package domain

import (
	"context"
)

type ServerRole string

const (
	MasterServer  = ServerRole("master")
	ReserveServer = ServerRole("reserve")
)

// ServerInfo is the outcome of an election as seen by this server.
type ServerInfo struct {
	ServerRole       ServerRole
	MasterServerName string
}

type HealthCheckResponse struct {
	ServerName string
	Role       ServerRole
}

// SyncUseCase keeps the servers of a cluster agreed on one master. Only the
// master hosts matches; the others mirror its match views.
type SyncUseCase interface {
	Sync(ctx context.Context, statesChan <-chan map[string]MatchView)
	DefineServerRole(ctx context.Context)
	CheckMasterHealth(ctx context.Context) error
	ServerName() string
	Chan() <-chan ServerInfo
}

// SyncRepository reaches a peer at its base address.
type SyncRepository interface {
	Sync(ctx context.Context, addr string, states map[string]MatchView) error
	HealthCheck(ctx context.Context, addr string) (*HealthCheckResponse, error)
}

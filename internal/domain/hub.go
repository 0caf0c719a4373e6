package domain

import (
	"context"
	"time"
)

// HubUseCase owns the matches hosted by this server and the mirrors of
// matches hosted by the master.
type HubUseCase interface {
	Handle(ctx context.Context, client Client) error
	MatchStates() <-chan map[string]MatchView
	ApplyStates(ctx context.Context, states map[string]MatchView)
}

// MatchView is the point-in-time projection of a match shared with peers.
type MatchView struct {
	ID          string       `json:"id"`
	ClientKey   string       `json:"client_key"`
	Variant     Variant      `json:"variant"`
	Opponent    OpponentKind `json:"opponent"`
	Status      MatchStatus  `json:"status"`
	Winner      *Side        `json:"winner,omitempty"`
	Turn        TurnState    `json:"turn"`
	PlayerShots int          `json:"player_shots"`
	EnemyShots  int          `json:"enemy_shots"`
	Player      BoardView    `json:"player"`
	Enemy       BoardView    `json:"enemy"`
}

type MatchResult struct {
	MatchID     string
	Variant     Variant
	Opponent    OpponentKind
	Winner      Side
	PlayerShots int
	EnemyShots  int
	FinishedAt  time.Time
}

type ResultsRepository interface {
	RecordMatch(ctx context.Context, result MatchResult) error
}

package store

import (
	"context"

	"github.com/me/rota/internal/roster"
	"github.com/me/rota/pkg/model"
)

// Store defines the persistence layer for rosters and completed rounds.
type Store interface {
	// Roster
	ReplaceRoster(ctx context.Context, r *roster.Roster) error
	LoadRoster(ctx context.Context) (*roster.Roster, error)

	// Round audit log
	SaveRound(ctx context.Context, rec *model.RoundRecord) error
	GetRound(ctx context.Context, id string) (*model.RoundRecord, error)
	ListRounds(ctx context.Context, opts model.ListOptions) ([]*model.RoundRecord, int, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/matchboard/internal/models"
)

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	List(ctx context.Context) ([]*models.Match, error)
	GetByMatchKey(ctx context.Context, matchKey string) (*models.Match, error)
}

// StandingRepository defines the interface for standings data access
type StandingRepository interface {
	ListByRank(ctx context.Context) ([]*models.Standing, error)
	GetByMatchID(ctx context.Context, matchID int64) ([]*models.Standing, error)
}

// H2hRepository defines the interface for head-to-head data access
type H2hRepository interface {
	GetByMatchIDs(ctx context.Context, matchIDs []int64) ([]*models.H2hRecord, error)
}

// SnapshotProvider loads the full match, standings and H2H universe
type SnapshotProvider interface {
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

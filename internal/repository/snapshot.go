package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/matchboard/internal/database"
	"github.com/yourusername/matchboard/internal/models"
)

var snapshotTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// PostgresSnapshotProvider loads all three collections inside one read-only
// repeatable-read transaction so they describe the same point in time.
type PostgresSnapshotProvider struct {
	db *database.DB
}

// NewPostgresSnapshotProvider creates a new snapshot provider
func NewPostgresSnapshotProvider(db *database.DB) SnapshotProvider {
	return &PostgresSnapshotProvider{db: db}
}

// LoadSnapshot reads every match with its standings and H2H records
func (p *PostgresSnapshotProvider) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := p.db.WithTransaction(ctx, snapshotTxOptions, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		snap, err = loadSnapshot(ctx,
			&PostgresMatchRepository{q: tx},
			&PostgresStandingRepository{q: tx},
			&PostgresH2hRepository{q: tx},
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snap, nil
}

func loadSnapshot(ctx context.Context, matches MatchRepository, standings StandingRepository, h2h H2hRepository) (*models.Snapshot, error) {
	snap := &models.Snapshot{}

	var err error
	if snap.Matches, err = matches.List(ctx); err != nil {
		return nil, err
	}
	if snap.Standings, err = standings.ListByRank(ctx); err != nil {
		return nil, err
	}
	if snap.H2h, err = h2h.GetByMatchIDs(ctx, snap.MatchIDs()); err != nil {
		return nil, err
	}

	return snap, nil
}

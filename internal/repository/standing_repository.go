package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/matchboard/internal/database"
	"github.com/yourusername/matchboard/internal/models"
)

const (
	errScanStanding = "failed to scan standing: %w"

	standingColumns = `
		id, match_id, COALESCE(team, ''), COALESCE(rank, ''),
		COALESCE(mp, 0), COALESCE(wins, 0), COALESCE(draws, 0), COALESCE(losses, 0),
		COALESCE(goals, ''), COALESCE(gd, 0), COALESCE(pts, 0), created_at`
)

// PostgresStandingRepository implements StandingRepository for PostgreSQL
type PostgresStandingRepository struct {
	q querier
}

// NewPostgresStandingRepository creates a new standings repository
func NewPostgresStandingRepository(db *database.DB) StandingRepository {
	return &PostgresStandingRepository{q: db.GetPool()}
}

func scanStandings(rows pgx.Rows) ([]*models.Standing, error) {
	defer rows.Close()

	standings := make([]*models.Standing, 0)
	for rows.Next() {
		s := &models.Standing{}
		err := rows.Scan(
			&s.ID, &s.MatchID, &s.Team, &s.Rank,
			&s.MP, &s.Wins, &s.Draws, &s.Losses,
			&s.Goals, &s.GD, &s.Pts, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanStanding, err)
		}
		standings = append(standings, s)
	}

	return standings, rows.Err()
}

// ListByRank retrieves all standings ordered by the numeric prefix of their
// rank. Ranks without a leading digit sort first, as a cast to zero would.
func (r *PostgresStandingRepository) ListByRank(ctx context.Context) ([]*models.Standing, error) {
	query := `SELECT ` + standingColumns + `
		FROM standings
		ORDER BY substring(rank from '^[0-9]+')::numeric ASC NULLS FIRST, id ASC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}

	return scanStandings(rows)
}

// GetByMatchID retrieves the standings captured for a match
func (r *PostgresStandingRepository) GetByMatchID(ctx context.Context, matchID int64) ([]*models.Standing, error) {
	query := `SELECT ` + standingColumns + `
		FROM standings
		WHERE match_id = $1
		ORDER BY substring(rank from '^[0-9]+')::numeric ASC NULLS FIRST, id ASC`

	rows, err := r.q.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for match: %w", err)
	}

	return scanStandings(rows)
}

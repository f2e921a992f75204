package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/matchboard/internal/database"
	"github.com/yourusername/matchboard/internal/models"
)

// PostgresH2hRepository implements H2hRepository for PostgreSQL
type PostgresH2hRepository struct {
	q querier
}

// NewPostgresH2hRepository creates a new head-to-head repository
func NewPostgresH2hRepository(db *database.DB) H2hRepository {
	return &PostgresH2hRepository{q: db.GetPool()}
}

// GetByMatchIDs retrieves H2H records of the given matches, newest first
func (r *PostgresH2hRepository) GetByMatchIDs(ctx context.Context, matchIDs []int64) ([]*models.H2hRecord, error) {
	records := make([]*models.H2hRecord, 0)
	if len(matchIDs) == 0 {
		return records, nil
	}

	query := `
		SELECT id, match_id, date, COALESCE(home_team, ''), COALESCE(away_team, ''), COALESCE(score, ''),
		       COALESCE(home_odds, 0)::float8, COALESCE(draw_odds, 0)::float8, COALESCE(away_odds, 0)::float8,
		       created_at
		FROM h2h_matches
		WHERE match_id = ANY($1)
		ORDER BY date DESC NULLS LAST, id DESC
	`

	rows, err := r.q.Query(ctx, query, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query h2h matches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		h := &models.H2hRecord{}
		err := rows.Scan(
			&h.ID, &h.MatchID, &h.Date, &h.HomeTeam, &h.AwayTeam, &h.Score,
			&h.HomeOdds, &h.DrawOdds, &h.AwayOdds, &h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan h2h match: %w", err)
		}
		records = append(records, h)
	}

	return records, rows.Err()
}

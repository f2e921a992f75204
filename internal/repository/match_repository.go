package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/matchboard/internal/database"
	"github.com/yourusername/matchboard/internal/models"
)

const (
	errScanMatch = "failed to scan match: %w"

	matchColumns = `
		id, match_key, home_team, away_team, match_date, match_time,
		COALESCE(home_odds, 0)::float8, COALESCE(draw_odds, 0)::float8, COALESCE(away_odds, 0)::float8,
		COALESCE(match_url, ''), scraped_at`

	// matchTimeOrder zero-pads single-digit hours so "9:00" sorts before "18:00"
	matchTimeOrder = `CASE WHEN match_time ~ '^[0-9]:' THEN '0' || match_time ELSE match_time END`
)

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	q querier
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{q: db.GetPool()}
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.MatchKey, &m.HomeTeam, &m.AwayTeam, &m.MatchDate, &m.MatchTime,
		&m.HomeOdds, &m.DrawOdds, &m.AwayOdds, &m.MatchURL, &m.ScrapedAt,
	)
	return m, err
}

// List retrieves all matches ordered by kickoff date then time
func (r *PostgresMatchRepository) List(ctx context.Context) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		ORDER BY match_date ASC NULLS FIRST, ` + matchTimeOrder + ` ASC NULLS FIRST, id ASC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// GetByMatchKey retrieves a match by its unique key
func (r *PostgresMatchRepository) GetByMatchKey(ctx context.Context, matchKey string) (*models.Match, error) {
	if matchKey == "" {
		return nil, models.ErrMatchKeyMissing
	}

	query := `SELECT ` + matchColumns + ` FROM matches WHERE match_key = $1`

	m, err := scanMatch(r.q.QueryRow(ctx, query, matchKey))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return m, nil
}

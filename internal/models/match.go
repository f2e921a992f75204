package models

import (
	"math"
	"time"
)

// Match represents a scraped fixture with its 1X2 decimal odds
type Match struct {
	ID        int64      `db:"id" json:"id"`
	MatchKey  string     `db:"match_key" json:"match_key" validate:"required"`
	HomeTeam  string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string     `db:"away_team" json:"away_team" validate:"required"`
	MatchDate *time.Time `db:"match_date" json:"match_date"`
	MatchTime *string    `db:"match_time" json:"match_time"`
	HomeOdds  float64    `db:"home_odds" json:"home_odds"`
	DrawOdds  float64    `db:"draw_odds" json:"draw_odds"`
	AwayOdds  float64    `db:"away_odds" json:"away_odds"`
	MatchURL  string     `db:"match_url" json:"match_url"`
	ScrapedAt *time.Time `db:"scraped_at" json:"scraped_at"`
}

// HasFiniteOdds reports whether neither home nor away odds is NaN or infinite
func (m *Match) HasFiniteOdds() bool {
	return isFinite(m.HomeOdds) && isFinite(m.AwayOdds)
}

// HasPricedSides reports whether both home and away odds are usable for
// probability computation. Missing odds are stored as zero.
func (m *Match) HasPricedSides() bool {
	return m.HasFiniteOdds() && m.HomeOdds > 0 && m.AwayOdds > 0
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

package models

import (
	"regexp"
	"strconv"
	"time"
)

var scorePattern = regexp.MustCompile(`^(\d+):(\d+)$`)

// H2hRecord represents a prior meeting between the two teams of a match
type H2hRecord struct {
	ID        int64      `db:"id" json:"id"`
	MatchID   int64      `db:"match_id" json:"match_id"`
	Date      *time.Time `db:"date" json:"date"`
	HomeTeam  string     `db:"home_team" json:"home_team"`
	AwayTeam  string     `db:"away_team" json:"away_team"`
	Score     string     `db:"score" json:"score"`
	HomeOdds  float64    `db:"home_odds" json:"home_odds"`
	DrawOdds  float64    `db:"draw_odds" json:"draw_odds"`
	AwayOdds  float64    `db:"away_odds" json:"away_odds"`
	CreatedAt *time.Time `db:"created_at" json:"created_at,omitempty"`
}

// ParseScore splits an "A:B" score into its two goal counts. ok is false for
// any score that does not match the pattern exactly.
func (h *H2hRecord) ParseScore() (first, second uint64, ok bool) {
	parts := scorePattern.FindStringSubmatch(h.Score)
	if parts == nil {
		return 0, 0, false
	}
	return parseGoals(parts[1]), parseGoals(parts[2]), true
}

// parseGoals parses a digit run, saturating on overflow
func parseGoals(digits string) uint64 {
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return ^uint64(0)
	}
	return n
}

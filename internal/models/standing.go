package models

import (
	"regexp"
	"time"
)

var rankPrefix = regexp.MustCompile(`^\d+`)

// Standing represents a team's league table row captured alongside a match
type Standing struct {
	ID        int64      `db:"id" json:"id"`
	MatchID   int64      `db:"match_id" json:"match_id"`
	Team      string     `db:"team" json:"team"`
	Rank      string     `db:"rank" json:"rank"`
	MP        int        `db:"mp" json:"mp"`
	Wins      int        `db:"wins" json:"wins"`
	Draws     int        `db:"draws" json:"draws"`
	Losses    int        `db:"losses" json:"losses"`
	Goals     string     `db:"goals" json:"goals"`
	GD        int        `db:"gd" json:"gd"`
	Pts       int        `db:"pts" json:"pts"`
	CreatedAt *time.Time `db:"created_at" json:"created_at,omitempty"`
}

// RankPrefix returns the leading digit run of the rank text, or "" when the
// rank does not start with a digit.
func (s *Standing) RankPrefix() string {
	return rankPrefix.FindString(s.Rank)
}

// StandingSummary is the subset of a standing shown next to a value bet
type StandingSummary struct {
	Rank   string `json:"rank"`
	MP     int    `json:"mp"`
	Wins   int    `json:"wins"`
	Draws  int    `json:"draws"`
	Losses int    `json:"losses"`
	Pts    int    `json:"pts"`
	GD     int    `json:"gd"`
}

// Summary returns the standing summary fields
func (s *Standing) Summary() StandingSummary {
	return StandingSummary{
		Rank:   s.Rank,
		MP:     s.MP,
		Wins:   s.Wins,
		Draws:  s.Draws,
		Losses: s.Losses,
		Pts:    s.Pts,
		GD:     s.GD,
	}
}

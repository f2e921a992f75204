package models

import "time"

// ValueBet is a match selected as a value-bet candidate, annotated with
// implied probabilities, both standings and head-to-head form.
type ValueBet struct {
	ID                 int64           `json:"id"`
	MatchKey           string          `json:"match_key"`
	MatchURL           string          `json:"match_url"`
	HomeTeam           string          `json:"home_team"`
	AwayTeam           string          `json:"away_team"`
	MatchDate          *time.Time      `json:"match_date"`
	MatchTime          *string         `json:"match_time"`
	HomeOdds           float64         `json:"home_odds"`
	AwayOdds           float64         `json:"away_odds"`
	HomeWinProbability float64         `json:"home_win_prob"`
	AwayWinProbability float64         `json:"away_win_prob"`
	HomeStanding       StandingSummary `json:"home_standing"`
	AwayStanding       StandingSummary `json:"away_standing"`
	HomeWinsVsAway     int             `json:"home_wins_vs_away"`
	AwayWinsVsHome     int             `json:"away_wins_vs_home"`
	H2hHistory         []H2hRecord     `json:"h2h_history"`
}

// Snapshot is the fully loaded universe the selector works on
type Snapshot struct {
	Matches   []*Match
	Standings []*Standing
	H2h       []*H2hRecord
}

// MatchIDs returns the IDs of all matches in the snapshot
func (s *Snapshot) MatchIDs() []int64 {
	ids := make([]int64, 0, len(s.Matches))
	for _, m := range s.Matches {
		if m != nil {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

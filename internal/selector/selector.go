// Package selector picks value-bet candidates out of a match snapshot.
//
// Selection is a pure computation: the caller supplies the whole universe of
// matches, standings and head-to-head records and gets back an ordered list.
// Rows with malformed rank or score text are excluded, never fatal.
package selector

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yourusername/matchboard/internal/models"
)

// DefaultMinOdds is the payout at least one side of a match must exceed
const DefaultMinOdds = 1.40

// ErrNilSnapshot is returned when Select is called without a snapshot
var ErrNilSnapshot = errors.New("snapshot is required")

// ExclusionReason identifies why a match was dropped from the selection
type ExclusionReason string

const (
	ReasonInvalidOdds      ExclusionReason = "invalid_odds"
	ReasonNonPositiveOdds  ExclusionReason = "non_positive_odds"
	ReasonBelowMinOdds     ExclusionReason = "below_min_odds"
	ReasonMissingStanding  ExclusionReason = "missing_standing"
	ReasonUnrankedStanding ExclusionReason = "unranked_standing"
)

// Options configures a Selector
type Options struct {
	MinOdds float64
}

// DefaultOptions returns the options used by the dashboard
func DefaultOptions() Options {
	return Options{MinOdds: DefaultMinOdds}
}

// Stats summarizes one selection run
type Stats struct {
	MatchesEvaluated int                     `json:"matches_evaluated"`
	Candidates       int                     `json:"candidates"`
	Excluded         map[ExclusionReason]int `json:"excluded"`
	MalformedScores  int                     `json:"malformed_scores"`
	OrphanedRecords  int                     `json:"orphaned_records"`
}

// Selection is the ordered result of a selection run
type Selection struct {
	Candidates []models.ValueBet `json:"value_bets"`
	Stats      Stats             `json:"stats"`
}

// Selector applies the value-bet filter and ranking to snapshots
type Selector struct {
	minOdds decimal.Decimal
}

// New creates a selector. A non-positive MinOdds falls back to DefaultMinOdds.
func New(opts Options) *Selector {
	if opts.MinOdds <= 0 {
		opts.MinOdds = DefaultMinOdds
	}
	return &Selector{minOdds: decimal.NewFromFloat(opts.MinOdds)}
}

// MinOdds returns the configured odds threshold
func (s *Selector) MinOdds() float64 {
	f, _ := s.minOdds.Float64()
	return f
}

// candidate carries the ordering keys next to the output record
type candidate struct {
	bet     models.ValueBet
	minRank uint64
	spread  decimal.Decimal
}

// Select joins, filters, scores and orders the matches of a snapshot
func (s *Selector) Select(snap *models.Snapshot) (*Selection, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}

	stats := Stats{Excluded: make(map[ExclusionReason]int)}

	known := make(map[int64]struct{}, len(snap.Matches))
	for _, m := range snap.Matches {
		if m != nil {
			known[m.ID] = struct{}{}
		}
	}

	standings, orphaned := indexStandings(snap.Standings, known)
	stats.OrphanedRecords += orphaned
	history, orphaned := groupHistory(snap.H2h, known)
	stats.OrphanedRecords += orphaned

	var candidates []candidate
	for _, m := range snap.Matches {
		if m == nil {
			continue
		}
		stats.MatchesEvaluated++

		c, reason, ok := s.evaluate(m, standings)
		if !ok {
			stats.Excluded[reason]++
			continue
		}

		records := history[m.ID]
		form := aggregateForm(records)
		stats.MalformedScores += form.malformed
		c.bet.HomeWinsVsAway = form.homeWins
		c.bet.AwayWinsVsHome = form.awayWins
		c.bet.H2hHistory = sortedHistory(records)

		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.minRank != b.minRank {
			return a.minRank < b.minRank
		}
		if cmp := a.spread.Cmp(b.spread); cmp != 0 {
			return cmp < 0
		}
		return a.bet.ID < b.bet.ID
	})

	out := make([]models.ValueBet, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.bet)
	}
	stats.Candidates = len(out)

	return &Selection{Candidates: out, Stats: stats}, nil
}

// evaluate applies the odds and rank filters to a single match
func (s *Selector) evaluate(m *models.Match, standings map[standingKey]*models.Standing) (candidate, ExclusionReason, bool) {
	if !m.HasFiniteOdds() {
		return candidate{}, ReasonInvalidOdds, false
	}
	if !m.HasPricedSides() {
		return candidate{}, ReasonNonPositiveOdds, false
	}

	home := decimal.NewFromFloat(m.HomeOdds)
	away := decimal.NewFromFloat(m.AwayOdds)
	if !home.GreaterThan(s.minOdds) && !away.GreaterThan(s.minOdds) {
		return candidate{}, ReasonBelowMinOdds, false
	}

	hs := standings[standingKey{matchID: m.ID, team: m.HomeTeam}]
	as := standings[standingKey{matchID: m.ID, team: m.AwayTeam}]
	if hs == nil || as == nil {
		return candidate{}, ReasonMissingStanding, false
	}

	homeRank, ok := NumericPrefix(hs.Rank)
	if !ok {
		return candidate{}, ReasonUnrankedStanding, false
	}
	awayRank, ok := NumericPrefix(as.Rank)
	if !ok {
		return candidate{}, ReasonUnrankedStanding, false
	}

	minRank := homeRank
	if awayRank < minRank {
		minRank = awayRank
	}

	bet := models.ValueBet{
		ID:                 m.ID,
		MatchKey:           m.MatchKey,
		MatchURL:           m.MatchURL,
		HomeTeam:           m.HomeTeam,
		AwayTeam:           m.AwayTeam,
		MatchDate:          m.MatchDate,
		MatchTime:          m.MatchTime,
		HomeOdds:           m.HomeOdds,
		AwayOdds:           m.AwayOdds,
		HomeWinProbability: ImpliedProbability(home),
		AwayWinProbability: ImpliedProbability(away),
		HomeStanding:       hs.Summary(),
		AwayStanding:       as.Summary(),
	}

	return candidate{
		bet:     bet,
		minRank: minRank,
		spread:  home.Sub(away).Abs(),
	}, "", true
}

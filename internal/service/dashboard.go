// Package service wires the repositories and the selector into the dashboard read paths.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchboard/internal/logger"
	"github.com/yourusername/matchboard/internal/metrics"
	"github.com/yourusername/matchboard/internal/models"
	"github.com/yourusername/matchboard/internal/repository"
	"github.com/yourusername/matchboard/internal/selector"
)

const valueBetsCacheKey = "value_bets"

// Dashboard holds the unfiltered props for the main dashboard view
type Dashboard struct {
	Matches    []*models.Match     `json:"matches"`
	H2hMatches []*models.H2hRecord `json:"h2hMatches"`
	Standings  []*models.Standing  `json:"standings"`
}

// MatchDetail holds one match with its standings and head-to-head history
type MatchDetail struct {
	Match      *models.Match       `json:"match"`
	Standings  []*models.Standing  `json:"standings"`
	H2hHistory []*models.H2hRecord `json:"h2hHistory"`
}

// DashboardService serves the dashboard and value-bet views
type DashboardService struct {
	matches   repository.MatchRepository
	standings repository.StandingRepository
	h2h       repository.H2hRepository
	snapshots repository.SnapshotProvider
	selector  *selector.Selector
	cache     *cache.Cache
	logger    *logger.SelectionLogger
}

// NewDashboardService creates a dashboard service. A zero cacheTTL disables caching.
func NewDashboardService(
	repos *repository.Repositories,
	sel *selector.Selector,
	cacheTTL time.Duration,
	log *logrus.Logger,
) *DashboardService {
	s := &DashboardService{
		matches:   repos.Match,
		standings: repos.Standing,
		h2h:       repos.H2h,
		snapshots: repos.Snapshot,
		selector:  sel,
		logger:    logger.NewSelectionLogger(log),
	}
	if cacheTTL > 0 {
		s.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return s
}

// Dashboard returns all matches, their head-to-head records and all standings
func (s *DashboardService) Dashboard(ctx context.Context) (*Dashboard, error) {
	matches, err := s.matches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}

	h2h, err := s.h2h.GetByMatchIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list h2h matches: %w", err)
	}

	standings, err := s.standings.ListByRank(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}

	return &Dashboard{
		Matches:    nonNil(matches),
		H2hMatches: nonNil(h2h),
		Standings:  nonNil(standings),
	}, nil
}

// ValueBets returns the current selection, served from cache when fresh
func (s *DashboardService) ValueBets(ctx context.Context) (*selector.Selection, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(valueBetsCacheKey); ok {
			selection := cached.(*selector.Selection)
			metrics.RecordCacheHit()
			s.logger.LogCacheHit(len(selection.Candidates))
			return selection, nil
		}
	}
	return s.compute(ctx)
}

// Refresh recomputes the selection and replaces the cached copy
func (s *DashboardService) Refresh(ctx context.Context) (*selector.Selection, error) {
	return s.compute(ctx)
}

// MatchByKey returns a single match with its standings and head-to-head history
func (s *DashboardService) MatchByKey(ctx context.Context, matchKey string) (*MatchDetail, error) {
	if matchKey == "" {
		return nil, models.ErrMatchKeyMissing
	}

	match, err := s.matches.GetByMatchKey(ctx, matchKey)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get match %s: %w", matchKey, err)
	}

	standings, err := s.standings.GetByMatchID(ctx, match.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings for match %d: %w", match.ID, err)
	}

	h2h, err := s.h2h.GetByMatchIDs(ctx, []int64{match.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to get h2h for match %d: %w", match.ID, err)
	}

	return &MatchDetail{
		Match:      match,
		Standings:  nonNil(standings),
		H2hHistory: nonNil(h2h),
	}, nil
}

func (s *DashboardService) compute(ctx context.Context) (*selector.Selection, error) {
	start := time.Now()

	snap, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	selection, err := s.selector.Select(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to select value bets: %w", err)
	}

	elapsed := time.Since(start)
	excluded := make(map[string]int, len(selection.Stats.Excluded))
	for reason, count := range selection.Stats.Excluded {
		excluded[string(reason)] = count
	}

	metrics.RecordSelection(elapsed.Seconds(), selection.Stats.Candidates, selection.Stats.MalformedScores, excluded)
	s.logger.LogSelection(
		selection.Stats.MatchesEvaluated,
		selection.Stats.Candidates,
		selection.Stats.MalformedScores,
		selection.Stats.OrphanedRecords,
		excluded,
		float64(elapsed.Microseconds())/1000,
	)

	if s.cache != nil {
		s.cache.SetDefault(valueBetsCacheKey, selection)
	}
	return selection, nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

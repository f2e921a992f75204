package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/matchboard/internal/models"
	"github.com/yourusername/matchboard/internal/repository"
	"github.com/yourusername/matchboard/internal/selector"
)

type MockMatchRepository struct{ mock.Mock }

func (m *MockMatchRepository) List(ctx context.Context) ([]*models.Match, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) GetByMatchKey(ctx context.Context, key string) (*models.Match, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

type MockStandingRepository struct{ mock.Mock }

func (m *MockStandingRepository) ListByRank(ctx context.Context) ([]*models.Standing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Standing), args.Error(1)
}

func (m *MockStandingRepository) GetByMatchID(ctx context.Context, matchID int64) ([]*models.Standing, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Standing), args.Error(1)
}

type MockH2hRepository struct{ mock.Mock }

func (m *MockH2hRepository) GetByMatchIDs(ctx context.Context, ids []int64) ([]*models.H2hRecord, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.H2hRecord), args.Error(1)
}

type MockSnapshotProvider struct{ mock.Mock }

func (m *MockSnapshotProvider) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

type fixture struct {
	matches   *MockMatchRepository
	standings *MockStandingRepository
	h2h       *MockH2hRepository
	snapshots *MockSnapshotProvider
}

func newFixture() *fixture {
	return &fixture{
		matches:   &MockMatchRepository{},
		standings: &MockStandingRepository{},
		h2h:       &MockH2hRepository{},
		snapshots: &MockSnapshotProvider{},
	}
}

func (f *fixture) service(ttl time.Duration) *DashboardService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	repos := &repository.Repositories{
		Match:    f.matches,
		Standing: f.standings,
		H2h:      f.h2h,
		Snapshot: f.snapshots,
	}
	return NewDashboardService(repos, selector.New(selector.DefaultOptions()), ttl, log)
}

func valueBetSnapshot() *models.Snapshot {
	m := &models.Match{ID: 1, MatchKey: "ars-bre", HomeTeam: "Arsenal", AwayTeam: "Brentford", HomeOdds: 1.55, DrawOdds: 3.4, AwayOdds: 5.0}
	return &models.Snapshot{
		Matches: []*models.Match{m},
		Standings: []*models.Standing{
			{ID: 1, MatchID: 1, Team: "Arsenal", Rank: "1"},
			{ID: 2, MatchID: 1, Team: "Brentford", Rank: "14"},
		},
		H2h: []*models.H2hRecord{{ID: 1, MatchID: 1, Score: "2:0"}},
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.matches.On("List", ctx).Return([]*models.Match{{ID: 3}, {ID: 7}}, nil)
	f.h2h.On("GetByMatchIDs", ctx, []int64{3, 7}).Return([]*models.H2hRecord{{ID: 1, MatchID: 7}}, nil)
	f.standings.On("ListByRank", ctx).Return(nil, nil)

	dash, err := f.service(0).Dashboard(ctx)
	require.NoError(t, err)
	assert.Len(t, dash.Matches, 2)
	assert.Len(t, dash.H2hMatches, 1)
	assert.NotNil(t, dash.Standings)
	assert.Empty(t, dash.Standings)
	f.h2h.AssertExpectations(t)
}

func TestDashboardPropagatesRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.matches.On("List", ctx).Return(nil, errors.New("connection reset"))

	dash, err := f.service(0).Dashboard(ctx)
	assert.Nil(t, dash)
	assert.ErrorContains(t, err, "failed to list matches")
	f.h2h.AssertNotCalled(t, "GetByMatchIDs", mock.Anything, mock.Anything)
}

func TestValueBetsUsesCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.snapshots.On("LoadSnapshot", ctx).Return(valueBetSnapshot(), nil).Once()

	svc := f.service(time.Minute)
	first, err := svc.ValueBets(ctx)
	require.NoError(t, err)
	require.Len(t, first.Candidates, 1)
	assert.Equal(t, 1, first.Candidates[0].HomeWinsVsAway)

	second, err := svc.ValueBets(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	f.snapshots.AssertNumberOfCalls(t, "LoadSnapshot", 1)
}

func TestValueBetsWithoutCacheReloads(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.snapshots.On("LoadSnapshot", ctx).Return(valueBetSnapshot(), nil)

	svc := f.service(0)
	_, err := svc.ValueBets(ctx)
	require.NoError(t, err)
	_, err = svc.ValueBets(ctx)
	require.NoError(t, err)
	f.snapshots.AssertNumberOfCalls(t, "LoadSnapshot", 2)
}

func TestRefreshReplacesCachedSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.snapshots.On("LoadSnapshot", ctx).Return(valueBetSnapshot(), nil).Once()
	f.snapshots.On("LoadSnapshot", ctx).Return(&models.Snapshot{}, nil).Once()

	svc := f.service(time.Minute)
	_, err := svc.ValueBets(ctx)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, refreshed.Candidates)

	cached, err := svc.ValueBets(ctx)
	require.NoError(t, err)
	assert.Same(t, refreshed, cached)
}

func TestValueBetsSnapshotError(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.snapshots.On("LoadSnapshot", ctx).Return(nil, errors.New("timeout"))

	selection, err := f.service(time.Minute).ValueBets(ctx)
	assert.Nil(t, selection)
	assert.ErrorContains(t, err, "failed to load snapshot")
}

func TestMatchByKey(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := newFixture()
		f.matches.On("GetByMatchKey", ctx, "ars-bre").Return(&models.Match{ID: 5, MatchKey: "ars-bre"}, nil)
		f.standings.On("GetByMatchID", ctx, int64(5)).Return([]*models.Standing{{ID: 1}, {ID: 2}}, nil)
		f.h2h.On("GetByMatchIDs", ctx, []int64{5}).Return(nil, nil)

		detail, err := f.service(0).MatchByKey(ctx, "ars-bre")
		require.NoError(t, err)
		assert.Equal(t, int64(5), detail.Match.ID)
		assert.Len(t, detail.Standings, 2)
		assert.NotNil(t, detail.H2hHistory)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.matches.On("GetByMatchKey", ctx, "missing").Return(nil, models.ErrNotFound)

		detail, err := f.service(0).MatchByKey(ctx, "missing")
		assert.Nil(t, detail)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := newFixture().service(0).MatchByKey(ctx, "")
		assert.ErrorIs(t, err, models.ErrMatchKeyMissing)
	})
}

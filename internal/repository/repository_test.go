package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/matchboard/internal/database"
	"github.com/yourusername/matchboard/internal/models"
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

func TestNewRepositoriesRequiresDB(t *testing.T) {
	repos, err := NewRepositories(nil)
	assert.Error(t, err)
	assert.Nil(t, repos)
}

func TestLoadSnapshotRequestsH2hForLoadedMatches(t *testing.T) {
	ctx := context.Background()
	matches := &MockMatchRepository{}
	standings := &MockStandingRepository{}
	h2h := &MockH2hRepository{}

	matches.On("List", ctx).Return([]*models.Match{{ID: 4}, {ID: 9}}, nil)
	standings.On("ListByRank", ctx).Return([]*models.Standing{{ID: 1, MatchID: 4}}, nil)
	h2h.On("GetByMatchIDs", ctx, []int64{4, 9}).Return([]*models.H2hRecord{{ID: 2, MatchID: 9}}, nil)

	snap, err := loadSnapshot(ctx, matches, standings, h2h)
	require.NoError(t, err)
	assert.Len(t, snap.Matches, 2)
	assert.Len(t, snap.Standings, 1)
	assert.Len(t, snap.H2h, 1)

	matches.AssertExpectations(t)
	standings.AssertExpectations(t)
	h2h.AssertExpectations(t)
}

func TestLoadSnapshotPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	matches := &MockMatchRepository{}
	matches.On("List", ctx).Return(nil, boom)

	_, err := loadSnapshot(ctx, matches, &MockStandingRepository{}, &MockH2hRepository{})
	assert.ErrorIs(t, err, boom)
}

// seed inserts two matches with standings and H2H history
func seed(t *testing.T, db *database.DB) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	pool := db.GetPool()

	var later, earlier int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO matches (match_key, home_team, away_team, match_date, match_time, home_odds, draw_odds, away_odds, match_url)
		 VALUES ('k-later', 'Lyon', 'Nice', '2024-05-02', '20:45', 1.55, 3.40, 1.30, 'https://example.org/k-later') RETURNING id`,
	).Scan(&later))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO matches (match_key, home_team, away_team, match_date, match_time, home_odds, draw_odds, away_odds)
		 VALUES ('k-earlier', 'Lens', 'Brest', '2024-05-01', '18:00', 2.10, 3.10, 3.60) RETURNING id`,
	).Scan(&earlier))

	_, err := pool.Exec(ctx,
		`INSERT INTO standings (match_id, team, rank, mp, wins, draws, losses, goals, gd, pts) VALUES
		 ($1, 'Lyon', '12', 30, 12, 6, 12, '40:41', -1, 42),
		 ($1, 'Nice', '3rd', 30, 17, 8, 5, '44:22', 22, 59),
		 ($2, 'Lens', '-', 30, 14, 8, 8, '40:30', 10, 50),
		 ($2, 'Brest', '2', 30, 17, 7, 6, '48:28', 20, 58)`,
		later, earlier)
	require.NoError(t, err)

	_, err = pool.Exec(ctx,
		`INSERT INTO h2h_matches (match_id, date, home_team, away_team, score) VALUES
		 ($1, '2023-01-10', 'Lyon', 'Nice', '2:1'),
		 ($1, '2023-09-10', 'Nice', 'Lyon', '0:0'),
		 ($1, NULL, 'Lyon', 'Nice', 'postponed')`,
		later)
	require.NoError(t, err)

	return later, earlier
}

func TestRepositoriesIntegration(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	later, earlier := seed(t, db)
	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	matches, err := repos.Match.List(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, earlier, matches[0].ID, "matches sort by date ascending")
	assert.Equal(t, 1.55, matches[1].HomeOdds)

	m, err := repos.Match.GetByMatchKey(ctx, "k-later")
	require.NoError(t, err)
	assert.Equal(t, "Lyon", m.HomeTeam)

	_, err = repos.Match.GetByMatchKey(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	standings, err := repos.Standing.ListByRank(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 4)
	assert.Equal(t, "-", standings[0].Rank, "unranked rows sort first")
	assert.Equal(t, "2", standings[1].Rank)
	assert.Equal(t, "3rd", standings[2].Rank)
	assert.Equal(t, "12", standings[3].Rank)

	records, err := repos.H2h.GetByMatchIDs(ctx, []int64{later, earlier})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "0:0", records[0].Score, "h2h sorts newest first")
	assert.Nil(t, records[2].Date)

	snap, err := repos.Snapshot.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Matches, 2)
	assert.Len(t, snap.Standings, 4)
	assert.Len(t, snap.H2h, 3)
}

func TestMatchListOrdersUnpaddedKickoffTimes(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.GetPool().Exec(ctx,
		`INSERT INTO matches (match_key, home_team, away_team, match_date, match_time) VALUES
		 ('evening', 'Lille', 'Reims', '2024-05-04', '18:00'),
		 ('morning', 'Metz', 'Lorient', '2024-05-04', '9:00'),
		 ('noon', 'Nantes', 'Angers', '2024-05-04', '12:30')`)
	require.NoError(t, err)

	matches, err := NewPostgresMatchRepository(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "morning", matches[0].MatchKey)
	assert.Equal(t, "noon", matches[1].MatchKey)
	assert.Equal(t, "evening", matches[2].MatchKey)
}

func TestLoadSnapshotSkipsNilMatchesWhenCollectingIDs(t *testing.T) {
	ctx := context.Background()
	matches := &MockMatchRepository{}
	standings := &MockStandingRepository{}
	h2h := &MockH2hRepository{}

	matches.On("List", ctx).Return([]*models.Match{{ID: 4}, nil}, nil)
	standings.On("ListByRank", ctx).Return([]*models.Standing{}, nil)
	h2h.On("GetByMatchIDs", ctx, []int64{4}).Return([]*models.H2hRecord{}, nil)

	snap, err := loadSnapshot(ctx, matches, standings, h2h)
	require.NoError(t, err)
	assert.Len(t, snap.Matches, 2)
	h2h.AssertExpectations(t)
}

package scheduler

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
	"github.com/yourusername/matchboard/internal/selector"
)

type MockRefresher struct{ mock.Mock }

func (m *MockRefresher) Refresh(ctx context.Context) (*selector.Selection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*selector.Selection), args.Error(1)
}

type MockBroadcaster struct{ mock.Mock }

func (m *MockBroadcaster) Broadcast(selection *selector.Selection) error {
	return m.Called(selection).Error(0)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestScheduleRefresh(t *testing.T) {
	s := NewScheduler(&MockRefresher{}, nil, quietLogger())

	require.NoError(t, s.ScheduleRefresh("*/5 * * * *"))
	assert.Len(t, s.Entries(), 1)
	assert.True(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())
	assert.Error(t, s.ScheduleRefresh("@hourly"))
	assert.Error(t, s.Start())
}

func TestScheduleRefreshRejectsInvalidExpression(t *testing.T) {
	s := NewScheduler(&MockRefresher{}, nil, quietLogger())
	assert.Error(t, s.ScheduleRefresh("not a cron"))
	assert.Empty(t, s.Entries())
}

func TestStartWithoutJobs(t *testing.T) {
	s := NewScheduler(&MockRefresher{}, nil, quietLogger())
	assert.Error(t, s.Start())
	assert.NoError(t, s.Stop())
}

func TestRunRefreshBroadcasts(t *testing.T) {
	ctx := context.Background()
	selection := &selector.Selection{Candidates: []models.ValueBet{{ID: 1}}}

	refresher := &MockRefresher{}
	refresher.On("Refresh", ctx).Return(selection, nil)
	broadcaster := &MockBroadcaster{}
	broadcaster.On("Broadcast", selection).Return(nil)

	NewScheduler(refresher, broadcaster, quietLogger()).RunRefresh(ctx, "test")

	refresher.AssertExpectations(t)
	broadcaster.AssertExpectations(t)
}

func TestRunRefreshSkipsBroadcastOnError(t *testing.T) {
	ctx := context.Background()
	refresher := &MockRefresher{}
	refresher.On("Refresh", ctx).Return(nil, errors.New("database unavailable"))
	broadcaster := &MockBroadcaster{}

	NewScheduler(refresher, broadcaster, quietLogger()).RunRefresh(ctx, "test")

	broadcaster.AssertNotCalled(t, "Broadcast", mock.Anything)
}

func TestScheduledJobRuns(t *testing.T) {
	refresher := &MockRefresher{}
	done := make(chan struct{}, 1)
	refresher.On("Refresh", mock.Anything).Return(&selector.Selection{}, nil).Run(func(mock.Arguments) {
		select {
		case done <- struct{}{}:
		default:
		}
	})

	s := NewScheduler(refresher, nil, quietLogger())
	require.NoError(t, s.ScheduleRefresh("@every 1s"))
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled refresh did not run")
	}
}

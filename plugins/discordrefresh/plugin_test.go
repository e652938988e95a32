package discordrefresh

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bf2-milsims/census/milsims"
	"github.com/bf2-milsims/census/plugins/common"
)

type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) RefreshDirectory(ctx context.Context, opts milsims.VisitOptions) (milsims.VisitResult, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(milsims.VisitResult), args.Error(1)
}

func newTestRun(name string) *common.Run {
	return common.NewRun(context.Background(), zap.NewNop(), name)
}

func TestPlugin_StartWithoutRefresher(t *testing.T) {
	p := &Plugin{}

	err := p.Start(common.StartParameters{})
	assert.Equal(t, errNoRefresher, err)

	err = p.Run(newTestRun(p.Name()))
	assert.Equal(t, errNoRefresher, err)
}

func TestPlugin_Run(t *testing.T) {
	opts := milsims.VisitOptions{
		LockKey:     milsims.DirectoryLockKey,
		MinInterval: time.Minute,
		Batch:       milsims.BatchOptions{Limit: 5, MinAge: time.Minute},
	}

	testCases := []struct {
		name   string
		result milsims.VisitResult
	}{
		{
			name: "batch ran",
			result: milsims.VisitResult{
				Ran:         true,
				BatchResult: milsims.BatchResult{Attempted: 3, Refreshed: 2},
			},
		},
		{
			name:   "lock held elsewhere",
			result: milsims.VisitResult{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			refresher := new(mockRefresher)
			p := &Plugin{refresher: refresher, options: opts}

			run := newTestRun(p.Name())
			refresher.On("RefreshDirectory", run.Context(), opts).Return(tc.result, nil).Once()

			require.NoError(t, p.Run(run))
			refresher.AssertExpectations(t)
		})
	}
}

func TestPlugin_RunSurfacesFailures(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{name: "lock failure", err: errors.New("cannot acquire refresh lock milsims_directory_refresh: connection refused")},
		{name: "candidates failure", err: errors.New("cannot query refresh candidates: timeout")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			refresher := new(mockRefresher)
			p := &Plugin{refresher: refresher}

			run := newTestRun(p.Name())
			refresher.On("RefreshDirectory", run.Context(), milsims.VisitOptions{}).Return(milsims.VisitResult{}, tc.err).Once()

			err := p.Run(run)
			require.Error(t, err)
			assert.Equal(t, tc.err, errors.Cause(err))
			assert.Contains(t, err.Error(), "directory refresh failed")
		})
	}
}

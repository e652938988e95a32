package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "s3cret"

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type testService struct {
	*Service
	directory   *mockDirectory
	refresher   *mockRefresher
	submissions *mockSubmitter
	roadmap     *mockRoadmap
}

func newTestService(t *testing.T, config Config) *testService {
	t.Helper()

	ts := &testService{
		directory:   new(mockDirectory),
		refresher:   new(mockRefresher),
		submissions: new(mockSubmitter),
		roadmap:     new(mockRoadmap),
	}

	service, err := New(zap.NewNop(), config, ts.directory, ts.refresher, ts.submissions, ts.roadmap)
	require.NoError(t, err)
	service.now = func() time.Time { return testNow }
	ts.Service = service

	return ts
}

func (ts *testService) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.Router().ServeHTTP(rec, req)
	return rec
}

func (ts *testService) assertExpectations(t *testing.T) {
	ts.directory.AssertExpectations(t)
	ts.refresher.AssertExpectations(t)
	ts.submissions.AssertExpectations(t)
	ts.roadmap.AssertExpectations(t)
}

func intPtr(v int) *int {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}

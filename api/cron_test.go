package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bf2-milsims/census/milsims"
)

func cronRequest(query, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/cron/refresh-milsims"+query, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestCron_Unauthorized(t *testing.T) {
	testCases := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "missing header", secret: testSecret},
		{name: "wrong token", secret: testSecret, token: "guess"},
		{name: "no secret configured", secret: "", token: ""},
		{name: "no secret configured with token", secret: "", token: "anything"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestService(t, Config{CronSecret: tc.secret})

			rec := ts.do(cronRequest("", tc.token))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized\n", rec.Body.String())
			ts.assertExpectations(t)
		})
	}
}

func TestCron_Batch(t *testing.T) {
	ts := newTestService(t, Config{CronSecret: testSecret})
	ts.refresher.
		On("RefreshBatch", mock.Anything, milsims.BatchOptions{Limit: 10, MinAge: time.Minute}).
		Return(milsims.BatchResult{Attempted: 3, Refreshed: 2}, nil).
		Once()

	rec := ts.do(cronRequest("", testSecret))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "batch", body["mode"])
	assert.Equal(t, float64(3), body["attempted"])
	assert.Equal(t, float64(2), body["refreshed"])
	assert.Equal(t, float64(10), body["limit"])
	assert.Equal(t, float64(60), body["minAgeSeconds"])
	assert.Equal(t, "2026-10-16T12:00:00Z", body["at"])
	ts.assertExpectations(t)
}

func TestCron_BatchForce(t *testing.T) {
	ts := newTestService(t, Config{CronSecret: testSecret})
	ts.refresher.
		On("RefreshBatch", mock.Anything, milsims.BatchOptions{Limit: 200, MinAge: 0}).
		Return(milsims.BatchResult{}, nil).
		Once()

	rec := ts.do(cronRequest("?limit=1000&minAgeSeconds=300&force=1", testSecret))
	require.Equal(t, http.StatusOK, rec.Code)

	var body cronBatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 200, body.Limit)
	assert.Equal(t, 0, body.MinAgeSeconds)
	ts.assertExpectations(t)
}

func TestCron_BatchFailure(t *testing.T) {
	ts := newTestService(t, Config{CronSecret: testSecret})
	ts.refresher.
		On("RefreshBatch", mock.Anything, mock.Anything).
		Return(milsims.BatchResult{}, errors.New("cannot query refresh candidates: connection refused")).
		Once()

	rec := ts.do(cronRequest("", testSecret))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body cronErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Equal(t, "cannot query refresh candidates: connection refused", body.Error)
	assert.True(t, testNow.Equal(body.At))
}

func TestCron_Single(t *testing.T) {
	id := uuid.MustParse("7b0e4a37-54f3-4c8e-9a7c-3f6d2f0f8a11")

	ts := newTestService(t, Config{CronSecret: testSecret})
	ts.refresher.On("Refresh", mock.Anything, id).Return(nil).Once()

	rec := ts.do(cronRequest("?id="+id.String(), testSecret))
	require.Equal(t, http.StatusOK, rec.Code)

	var body cronSingleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "single", body.Mode)
	assert.Equal(t, id.String(), body.ID)
	ts.assertExpectations(t)
}

func TestCron_SingleFailures(t *testing.T) {
	id := uuid.MustParse("7b0e4a37-54f3-4c8e-9a7c-3f6d2f0f8a11")

	t.Run("cooldown", func(t *testing.T) {
		ts := newTestService(t, Config{CronSecret: testSecret})
		ts.refresher.On("Refresh", mock.Anything, id).Return(milsims.ErrCooldown).Once()

		rec := ts.do(cronRequest("?id="+id.String(), testSecret))
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body cronErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, milsims.ErrCooldown.Error(), body.Error)
	})

	t.Run("invalid id", func(t *testing.T) {
		ts := newTestService(t, Config{CronSecret: testSecret})

		rec := ts.do(cronRequest("?id=not-a-uuid", testSecret))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid milsim id")
		ts.assertExpectations(t)
	})
}

func TestParseCronParams(t *testing.T) {
	testCases := []struct {
		query    string
		expected cronParams
	}{
		{query: "", expected: cronParams{Limit: 10, MinAgeSeconds: 60}},
		{query: "limit=25&minAgeSeconds=120", expected: cronParams{Limit: 25, MinAgeSeconds: 120}},
		{query: "limit=500", expected: cronParams{Limit: 200, MinAgeSeconds: 60}},
		{query: "limit=0", expected: cronParams{Limit: 1, MinAgeSeconds: 60}},
		{query: "limit=-3", expected: cronParams{Limit: 1, MinAgeSeconds: 60}},
		{query: "limit=abc&minAgeSeconds=xyz", expected: cronParams{Limit: 10, MinAgeSeconds: 60}},
		{query: "minAgeSeconds=-10", expected: cronParams{Limit: 10, MinAgeSeconds: 0}},
		{query: "minAgeSeconds=300&force=1", expected: cronParams{Limit: 10, MinAgeSeconds: 0}},
		{query: "force=true", expected: cronParams{Limit: 10, MinAgeSeconds: 60}},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			require.NoError(t, err)

			assert.Equal(t, tc.expected, parseCronParams(values))
		})
	}
}
